package infrastructure

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config содержит настройки приложения, загружаемые из YAML-файла
type Config struct {
	DataFile  string `yaml:"data_file"`  // путь к файлу данных реестра
	Port      int    `yaml:"port"`       // порт веб-интерфейса
	ExportDir string `yaml:"export_dir"` // каталог для выгрузки отчетов
}

// DefaultConfig возвращает настройки по умолчанию
func DefaultConfig() Config {
	return Config{
		DataFile:  "students_data.json",
		Port:      8060,
		ExportDir: ".",
	}
}

// LoadConfig загружает настройки из YAML-файла. Отсутствие файла не считается
// ошибкой — возвращаются настройки по умолчанию. Незаполненные поля также
// получают значения по умолчанию.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("не удалось прочитать файл настроек %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("не удалось распарсить файл настроек %s: %w", filename, err)
	}

	if config.DataFile == "" {
		config.DataFile = DefaultConfig().DataFile
	}
	if config.Port == 0 {
		config.Port = DefaultConfig().Port
	}
	if config.ExportDir == "" {
		config.ExportDir = DefaultConfig().ExportDir
	}

	return config, nil
}

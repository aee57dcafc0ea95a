package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/Vaflel/student-manager/cli"
	"github.com/Vaflel/student-manager/domain"
	"github.com/Vaflel/student-manager/infrastructure"
	"github.com/Vaflel/student-manager/usecases"
	"github.com/Vaflel/student-manager/web"
)

// openBrowser открывает адрес в браузере по умолчанию
func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "windows":
		err = exec.Command("cmd", "/c", "start", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = exec.Command("xdg-open", url).Start()
	}
	if err != nil {
		log.Printf("Не удалось открыть браузер: %v", err)
		log.Printf("Откройте вручную: %s", url)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "путь к файлу настроек")
	console := flag.Bool("console", false, "запустить консольное меню вместо веб-интерфейса")
	flag.Parse()

	config, err := infrastructure.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Ошибка загрузки настроек: %v, используются значения по умолчанию", err)
	}

	repo := infrastructure.NewJSONRosterRepository(config.DataFile)
	service, err := usecases.NewRosterService(repo)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptData) {
			// Реестр запускается пустым, старый файл не перезаписывается
			// до первого успешного изменения
			log.Printf("Файл данных поврежден, запуск с пустым реестром: %v", err)
		} else {
			log.Fatalf("Ошибка загрузки данных: %v", err)
		}
	}

	exporter := infrastructure.NewXLSXExporter(config.ExportDir)

	if *console {
		cli.NewMenu(service, exporter, os.Stdin, os.Stdout).Run()
		return
	}

	server := web.NewServer(service, exporter)

	go func() {
		time.Sleep(500 * time.Millisecond)
		url := fmt.Sprintf("http://localhost:%d", config.Port)
		log.Printf("Открываем браузер: %s", url)
		openBrowser(url)
	}()

	if err := server.Start(config.Port); err != nil {
		log.Fatalf("Ошибка запуска веб-сервера: %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ikkim/mapaddress-backend/config"
	"github.com/ikkim/mapaddress-backend/internal/app/repository"
	"github.com/ikkim/mapaddress-backend/internal/app/service"
	"github.com/ikkim/mapaddress-backend/pkg/logger"
	"github.com/ikkim/mapaddress-backend/pkg/util"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{
		Level:  cfg.Log.Level,
		Format: "console",
		Output: os.Stderr,
	})

	ctx := context.Background()

	addressRepo, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to store:", err)
	}
	defer closeStore()

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	addresses, err := util.ReadAddressSheet(f)
	f.Close()
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total addresses to import into %s: %d\n", cfg.Store.Driver, len(addresses))
	if len(addresses) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// Imported rows always get fresh ids.
	addressService := service.NewAddressService(addressRepo, nil)
	n, err := addressService.ImportAddresses(ctx, addresses)
	if err != nil {
		log.Fatal("Failed to import addresses:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total addresses imported: %d\n", n)
}

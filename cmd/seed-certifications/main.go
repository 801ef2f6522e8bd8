package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/stemsi/certify-backend/internal/certification"
	"github.com/stemsi/certify-backend/internal/client"
	"github.com/stemsi/certify-backend/internal/config"
	"github.com/stemsi/certify-backend/internal/logger"
	"github.com/stemsi/certify-backend/internal/seed"
	"github.com/stemsi/certify-backend/internal/validator"
	"golang.org/x/term"
)

func main() {
	var (
		dir    string
		dryRun bool
		yes    bool
	)
	flag.StringVar(&dir, "dir", "seeds", "Directory of YAML certification documents")
	flag.BoolVar(&dryRun, "dry-run", false, "Validate documents locally without uploading")
	flag.BoolVar(&yes, "yes", false, "Upload without asking for confirmation")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	files, err := seed.LoadDir(dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read seed documents")
	}
	if len(files) == 0 {
		fmt.Printf("No YAML documents found in %s\n", dir)
		return
	}

	api := client.New(cfg.CertificationAPIURL)

	fmt.Printf("=== Seeding %d certification(s) into %s ===\n", len(files), cfg.CertificationAPIURL)
	if !dryRun && !yes && !confirm("Upload now?") {
		fmt.Println("Aborted")
		return
	}

	successCount := 0
	for _, f := range files {
		cert := f.Certification

		// Reuse the stored id so seeding twice updates instead of clashing on the name.
		if cert.ID == "" && !dryRun {
			existing, err := api.Load(ctx, cert.Name)
			switch {
			case err == nil:
				cert.ID = existing.ID
			case !errors.Is(err, client.ErrNotFound):
				log.Warn().Err(err).Str("name", cert.Name).Msg("Lookup failed, uploading as new")
			}
		}
		cert = certification.AssignIDs(cert)

		var problems []string
		if dryRun {
			problems = validator.ValidateCertification(cert)
		} else {
			problems = api.Upload(ctx, cert).Errors
		}

		if len(problems) > 0 {
			fmt.Printf("✗ %s (%s)\n", cert.Name, f.Path)
			for _, p := range problems {
				fmt.Printf("    - %s\n", p)
			}
			continue
		}
		successCount++
		fmt.Printf("✓ %s (%d questions)\n", cert.Name, len(cert.Questions))
	}

	fmt.Printf("\nSeed completed! %d/%d certification(s) accepted.\n", successCount, len(files))
	if successCount < len(files) {
		cancel()
		os.Exit(1)
	}
}

// confirm asks a yes/no question when stdin is a terminal. Non-interactive
// runs proceed.
func confirm(question string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return true
	}
	fmt.Printf("%s [y/N]: ", question)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gsheet "google.golang.org/api/sheets/v4"
)

// oauth-init walks through the one-time authorization for the Sheets
// export when a service account cannot be used. It prints the consent URL,
// exchanges the pasted code, and stores the token for later runs.
func main() {
	credentialsPath := flag.String("credentials", "credentials.json", "OAuth client credentials file")
	tokenPath := flag.String("token", "token.json", "where to store the obtained token")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(*credentialsPath, *tokenPath); err != nil {
		fmt.Fprintf(os.Stderr, "oauth-init: %v\n", err)
		os.Exit(1)
	}
}

func run(credentialsPath, tokenPath string) error {
	raw, err := os.ReadFile(credentialsPath)
	if err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}

	cfg, err := google.ConfigFromJSON(raw, gsheet.SpreadsheetsScope)
	if err != nil {
		return fmt.Errorf("parse credentials: %w", err)
	}

	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open this link in your browser, authorize access, then paste the code here:\n%v\n\nCode: ", authURL)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return fmt.Errorf("read authorization code: %w", err)
	}

	token, err := cfg.Exchange(context.Background(), code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	f, err := os.OpenFile(tokenPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create token file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("write token: %w", err)
	}

	fmt.Printf("Token saved to %s\n", tokenPath)
	return nil
}

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dom/league-damage-calc/internal/config"
	"github.com/dom/league-damage-calc/internal/dataset"
	"github.com/dom/league-damage-calc/internal/service"
)

// Pushes a dataset to a running server's catalog import endpoint, signing an
// admin token with the local JWT_SECRET.
func main() {
	apiBase := flag.String("api", "http://localhost:8080", "Server base URL")
	dataDir := flag.String("data", "", "Dataset directory (default: embedded dataset)")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		fail("load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		fail("load config: %v", err)
	}

	token, err := service.NewAuthService(cfg).IssueToken("import-script", service.RoleAdmin, 5*time.Minute)
	if err != nil {
		fail("issue token (is JWT_SECRET set?): %v", err)
	}

	var ds *dataset.Dataset
	if *dataDir != "" {
		ds, err = dataset.LoadDir(*dataDir)
	} else {
		ds, err = dataset.LoadDefault()
	}
	if err != nil {
		fail("load dataset: %v", err)
	}

	body, err := json.Marshal(ds)
	if err != nil {
		fail("encode dataset: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, *apiBase+"/api/v1/catalog/import", bytes.NewReader(body))
	if err != nil {
		fail("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fail("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fail("import failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var result service.ImportResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		fail("decode failed: %v", err)
	}

	fmt.Printf("Imported %d champions, %d items, %d runes\n", result.Champions, result.Items, result.Runes)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

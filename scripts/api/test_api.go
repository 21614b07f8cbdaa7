// Minimal end-to-end smoke test for the accountability API. Run against a
// live instance:
//
//	API_URL=http://localhost:8080 ADMIN_KEY=... go run scripts/api/test_api.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

var (
	baseURL  = getenv("API_URL", "http://localhost:8080")
	adminKey = getenv("ADMIN_KEY", "")
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	ping()

	id := submitIssue()
	checkPublicFeed(id)

	if adminKey == "" {
		fmt.Println("ADMIN_KEY not set, skipping admin actions")
		fmt.Println("✓ public endpoints passed")
		return
	}

	updateIssue(id)
	checkStatus(id, "Solved")

	fmt.Println("✓ all endpoints passed")
}

func ping() {
	var resp struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		StoreName string `json:"storeName"`
	}
	getJSON("/?action=ping", &resp)
	if !resp.Success || resp.Message != "pong" {
		log.Fatalf("ping failed: %+v", resp)
	}
	fmt.Printf("ping ok (store %s)\n", resp.StoreName)
}

func submitIssue() string {
	var resp struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
		Error   string `json:"error"`
	}
	postJSON(map[string]any{
		"action":        "submit-issue",
		"title":         "Smoke test issue",
		"description":   fmt.Sprintf("created %s", time.Now().Format(time.RFC3339)),
		"submitterName": "smoke",
		"contact":       "smoke@example.com",
	}, &resp)
	if !resp.Success || !strings.HasPrefix(resp.ID, "ISSUE-") {
		log.Fatalf("submit-issue failed: %+v", resp)
	}
	fmt.Printf("submitted %s\n", resp.ID)
	return resp.ID
}

func checkPublicFeed(id string) {
	feed := issuesFeed()
	for _, iss := range feed.Issues {
		if iss.ID == id {
			if iss.Contact == "smoke@example.com" {
				log.Fatalf("public feed leaked raw contact for %s", id)
			}
			return
		}
	}
	log.Fatalf("issue %s missing from public feed", id)
}

func updateIssue(id string) {
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	postJSON(map[string]any{
		"action":           "update-status",
		"adminKey":         adminKey,
		"id":               id,
		"status":           "Solved",
		"resolutionReason": "smoke test",
	}, &resp)
	if !resp.Success {
		log.Fatalf("update-status failed: %+v", resp)
	}
}

func checkStatus(id, want string) {
	for _, iss := range issuesFeed().Issues {
		if iss.ID == id {
			if iss.Status != want {
				log.Fatalf("issue %s status = %s, want %s", id, iss.Status, want)
			}
			return
		}
	}
	log.Fatalf("issue %s missing from feed", id)
}

type feedResp struct {
	Success bool `json:"success"`
	Issues  []struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		Contact string `json:"contact"`
	} `json:"issues"`
}

func issuesFeed() feedResp {
	var feed feedResp
	getJSON("/?action=issues", &feed)
	if !feed.Success {
		log.Fatalf("issues feed failed")
	}
	return feed
}

func getJSON(path string, out any) {
	resp, err := http.Get(baseURL + path)
	if err != nil {
		log.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	decode(resp, path, out)
}

func postJSON(payload map[string]any, out any) {
	body, _ := json.Marshal(payload)
	resp, err := http.Post(baseURL+"/", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	decode(resp, "POST /", out)
}

func decode(resp *http.Response, path string, out any) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("%s: read: %v", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("%s: status %d: %s", path, resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Fatalf("%s: decode: %v (%s)", path, err, raw)
	}
}

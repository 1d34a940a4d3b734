// seed_analysis.go is a standalone script that seeds a worked example analysis via the Compass API.
//
// Usage:
//
//	go run scripts/seed_analysis.go -api http://localhost:8700 -analyst system
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
)

type analysisRequest struct {
	Title     string   `json:"title"`
	Goal      string   `json:"goal"`
	Framework string   `json:"framework"`
	Options   []string `json:"options"`
	Tags      []string `json:"tags,omitempty"`
}

type itemRequest struct {
	Category    string   `json:"category"`
	Text        string   `json:"text"`
	Confidence  string   `json:"confidence,omitempty"`
	EvidenceIDs []string `json:"evidence_ids,omitempty"`
	AppliesTo   []string `json:"applies_to,omitempty"`
}

func main() {
	apiURL := flag.String("api", "http://localhost:8700", "Compass API base URL")
	analystID := flag.String("analyst", "system", "X-Analyst-ID header value")
	dryRun := flag.Bool("dry-run", false, "print payloads without posting")
	flag.Parse()

	analysis := analysisRequest{
		Title:     "European HQ Location",
		Goal:      "Pick the city for the first European office",
		Framework: "swot",
		Options:   []string{"berlin", "lisbon", "amsterdam"},
		Tags:      []string{"expansion", "2026"},
	}

	items := []itemRequest{
		{Category: "strength", Text: "Deep engineering talent pool", Confidence: "high", EvidenceIDs: []string{"linkedin-2026-q2"}, AppliesTo: []string{"berlin", "amsterdam"}},
		{Category: "strength", Text: "Lowest office lease costs of the three", Confidence: "high", EvidenceIDs: []string{"cbre-emea-report"}, AppliesTo: []string{"lisbon"}},
		{Category: "strength", Text: "English widely spoken in tech scene", Confidence: "medium", AppliesTo: []string{"amsterdam", "berlin"}},
		{Category: "weakness", Text: "Slow commercial registration process", Confidence: "medium", AppliesTo: []string{"berlin"}},
		{Category: "weakness", Text: "Smaller senior-hire market", Confidence: "high", AppliesTo: []string{"lisbon"}},
		{Category: "opportunity", Text: "Government startup incentives through 2027", Confidence: "medium", EvidenceIDs: []string{"gov-incentive-memo"}, AppliesTo: []string{"lisbon"}},
		{Category: "opportunity", Text: "Direct flights to all existing offices"},
		{Category: "threat", Text: "Office rent rising faster than inflation", Confidence: "high", AppliesTo: []string{"amsterdam"}},
		{Category: "threat", Text: "Housing shortage may deter relocating hires", Confidence: "medium", AppliesTo: []string{"amsterdam", "berlin"}},
	}

	if *dryRun {
		out, _ := json.MarshalIndent(analysis, "", "  ")
		fmt.Println(string(out))
		for _, it := range items {
			out, _ := json.MarshalIndent(it, "", "  ")
			fmt.Println(string(out))
		}
		return
	}

	var created struct {
		ID string `json:"analysis_id"`
	}
	if err := post(*apiURL+"/api/v1/analyses", *analystID, analysis, &created); err != nil {
		log.Fatalf("create analysis: %v", err)
	}
	fmt.Printf("created analysis %s\n", created.ID)

	for _, it := range items {
		if err := post(*apiURL+"/api/v1/analyses/"+created.ID+"/items", *analystID, it, nil); err != nil {
			log.Fatalf("create item %q: %v", it.Text, err)
		}
	}
	fmt.Printf("seeded %d items\n", len(items))
	fmt.Printf("recommendation: %s/api/v1/analyses/%s/recommendation\n", *apiURL, created.ID)
}

func post(url, analystID string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Analyst-ID", analystID)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

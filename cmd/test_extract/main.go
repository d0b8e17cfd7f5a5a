// Manual smoke test for the extraction stage. Runs a few paragraphs through
// the configured model (EXPENSE_LLM_API_KEY), or the deterministic fallback
// when no key is set.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/config"
	"github.com/Aariyan007/personal-expense-tracker/internal/extract"
	"github.com/Aariyan007/personal-expense-tracker/internal/infrastructure/llm"
	"github.com/Aariyan007/personal-expense-tracker/internal/model"
)

func main() {
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	var provider llm.Provider
	if conf.LLM.APIKey != "" {
		provider = llm.NewOpenAIClient(conf.LLM.APIKey, conf.LLM.BaseURL, conf.LLM.Model, model.CategoryNames())
		fmt.Println("using model:", conf.LLM.Model)
	} else {
		fmt.Println("no API key, exercising the fallback path")
	}
	extractor := extract.NewExtractor(provider)

	paragraphs := []string{
		"I spent $25 on lunch and $60 on gas",
		"Paid $1200 rent, $80 groceries at Walmart and $15.50 for a movie",
		"Nothing much this week, maybe $5 coffee",
	}

	for _, paragraph := range paragraphs {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		result := extractor.Extract(ctx, paragraph)
		cancel()

		fmt.Printf("\n== %q\n", paragraph)
		fmt.Printf("source=%s entries=%d total=%.2f\n", result.Source, len(result.Entries), result.TotalAmount)
		out, _ := json.MarshalIndent(result.Entries, "", "  ")
		fmt.Println(string(out))
	}
}

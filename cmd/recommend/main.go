// Command recommend ranks personas for an answers file against the built-in
// scoring table, without touching any database.
//
//	recommend -answers answers.json
//
// where answers.json maps question indices to selected option keys:
//
//	{"0": ["talk-emotions"], "2": ["warm-motherly"]}
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/onboarding"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/utils"
)

func main() {
	answersPath := flag.String("answers", "", "Path to a JSON answers file (required)")
	limit := flag.Int("limit", onboarding.DefaultRecommendationSize, "Number of personas to return")
	scores := flag.Bool("scores", false, "Print every persona's raw score as well")
	level := flag.String("log-level", "warn", "Log level")
	flag.Parse()

	if *answersPath == "" {
		fmt.Println("Error: -answers is required")
		flag.PrintDefaults()
		os.Exit(1)
	}
	logger := utils.NewLogger(*level)

	data, err := os.ReadFile(*answersPath)
	if err != nil {
		log.Fatal("Failed to read answers", "err", err)
	}
	var answers models.AnswerSet
	if err := json.Unmarshal(data, &answers); err != nil {
		log.Fatal("Answers must map question indices to option keys", "err", err)
	}

	table := onboarding.DefaultScoringTable()
	recommender := onboarding.NewRecommender(logger, *limit)

	out := map[string]any{"recommendations": recommender.Compute(answers, table)}
	if *scores {
		out["scores"] = recommender.Scores(answers, table)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		log.Fatal("Failed to write result", "err", err)
	}
}

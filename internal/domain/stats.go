package domain

import "time"

// PortfolioStats summarizes the current cache snapshot for the home page.
type PortfolioStats struct {
	Total        int              `json:"total"`
	Published    int              `json:"published"`
	ByCategory   map[Category]int `json:"by_category"`
	Technologies int              `json:"technologies"` // Distinct technology count
	LastUpdated  time.Time        `json:"last_updated"`
}

// Skill is an aggregated technology entry for the about page.
type Skill struct {
	Name       string     `json:"name"`
	Count      int        `json:"count"`
	Categories []Category `json:"categories,omitempty"` // Categories the skill appears in
}

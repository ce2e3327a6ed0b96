package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FeedbackLabel is one entry of the closed label set the backend accepts.
// Weight is a display-only annotation; the backend interprets it, not us.
type FeedbackLabel struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
	Title  string  `yaml:"title"`
}

// FeedbackCatalog holds the fixed set of feedback labels.
type FeedbackCatalog struct {
	Labels []FeedbackLabel `yaml:"labels"`
}

// DefaultFeedbackCatalog returns the built-in label set used when no
// feedback.yaml is present.
func DefaultFeedbackCatalog() *FeedbackCatalog {
	return &FeedbackCatalog{
		Labels: []FeedbackLabel{
			{Name: "bad", Weight: 1.0, Title: "Bad"},
			{Name: "poor", Weight: 0.75, Title: "Poor"},
			{Name: "average", Weight: 0.50, Title: "Average"},
			{Name: "good", Weight: 0.25, Title: "Good"},
			{Name: "very_good", Weight: 0.1, Title: "Very Good"},
		},
	}
}

// LoadFeedbackCatalog reads and parses a feedback.yaml file.
func LoadFeedbackCatalog(path string) (*FeedbackCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback catalog: %w", err)
	}

	var catalog FeedbackCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feedback catalog YAML: %w", err)
	}
	if len(catalog.Labels) == 0 {
		return nil, fmt.Errorf("feedback catalog %s defines no labels", path)
	}

	return &catalog, nil
}

// Valid reports whether name belongs to the label set.
func (c *FeedbackCatalog) Valid(name string) bool {
	for _, l := range c.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

// Get returns the label entry for name.
func (c *FeedbackCatalog) Get(name string) (FeedbackLabel, bool) {
	for _, l := range c.Labels {
		if l.Name == name {
			return l, true
		}
	}
	return FeedbackLabel{}, false
}

package products

import (
	"encoding/json"
	"fmt"
	"os"
)

// Product identifies one tracked listing. Name is the join key across
// observations and must stay stable between runs; Size selects a variant
// on the page and may be empty.
type Product struct {
	Name string `json:"item"`
	URL  string `json:"url"`
	Size string `json:"size,omitempty"`
}

// Load reads the tracked product list from a JSON array on disk. Any read
// or decode failure is fatal to the run: a batch must never start against
// a partial or malformed list.
func Load(path string) ([]Product, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open product list %s: %w", path, err)
	}
	defer file.Close()

	var list []Product
	if err := json.NewDecoder(file).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode product list %s: %w", path, err)
	}

	for i, p := range list {
		if p.Name == "" {
			return nil, fmt.Errorf("product list %s: entry %d has no item name", path, i)
		}
		if p.URL == "" {
			return nil, fmt.Errorf("product list %s: entry %d (%s) has no url", path, i, p.Name)
		}
	}

	return list, nil
}

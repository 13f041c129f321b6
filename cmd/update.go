/*
Copyright © 2025 Mahan H R Gowda

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mahanhrgowda/time-capsule/internal/feed"
	"github.com/mahanhrgowda/time-capsule/internal/history"
)

// feedFileName is where fetched feed records accumulate inside the dataset
// directory, alongside the full export files.
const feedFileName = "recently-played.json"

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetches recent plays from the configured feed",
	Long: `Downloads the recently-played feed page by page and merges the records
into the dataset directory, deduplicating by play time. Requires --dataset
to be a directory and --feed_url to be set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpdate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(ctx context.Context) error {
	url := viper.GetString("feed_url")
	if url == "" {
		return fmt.Errorf("no feed configured: set --feed_url or feed_url in the config file")
	}

	dir := viper.GetString("dataset")
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("dataset directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("update needs --dataset to be a directory, got file %q", dir)
	}

	existing, err := readFeedFile(filepath.Join(dir, feedFileName))
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[r.PlayedAt] = true
	}

	client := feed.NewClient(url)
	added := 0
	page := 1
	pages := 1
	for page <= pages {
		items, totalPages, err := client.RecentlyPlayed(ctx, page)
		if err != nil {
			return err
		}
		pages = totalPages

		for _, r := range items {
			if r.PlayedAt == "" || seen[r.PlayedAt] {
				continue
			}
			seen[r.PlayedAt] = true
			existing = append(existing, r)
			added++
		}

		fmt.Printf("Downloaded page %v of %v\n", page, pages)
		page += 1
	}

	if added == 0 {
		fmt.Println("Already up to date")
		return nil
	}

	if err := writeFeedFile(filepath.Join(dir, feedFileName), existing); err != nil {
		return err
	}
	fmt.Printf("Added %d new plays\n", added)
	return nil
}

func readFeedFile(path string) ([]history.RawRecord, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var records []history.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

func writeFeedFile(path string, records []history.RawRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding feed records: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

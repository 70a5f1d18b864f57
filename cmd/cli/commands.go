package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	partition string
	limit     int
)

func init() {
	leaderboardCmd.Flags().StringVar(&partition, "partition", "general", "Rating partition to show (general or 1v1)")
	leaderboardCmd.Flags().IntVar(&limit, "limit", 0, "Number of players to show, 0 for everyone")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(challengesCmd)
	rootCmd.AddCommand(syncArchiveCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the ladder standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("partition", partition)
		q.Set("limit", strconv.Itoa(limit))
		return performRequest(http.MethodGet, "/leaderboard", q)
	},
}

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "List ongoing challenges",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/challenges", nil)
	},
}

var syncArchiveCmd = &cobra.Command{
	Use:   "sync-archive",
	Short: "Archive players who left the workspace and restore those who came back",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/sync-archive", nil)
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show how often each ladder command has been used",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/usage", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

func performRequest(method, endpoint string, query url.Values) error {
	if query == nil {
		query = url.Values{}
	}
	if dryRun {
		query.Set("dry_run", "true")
	}
	target := host + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	fmt.Printf("Making request to %s\n", target)

	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

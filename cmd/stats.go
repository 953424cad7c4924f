package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tu-graz-library/invenio-records-lom-sub000/stats"
)

var (
	statsRecord string
	statsMonth  string
)

var statsCmd = &cobra.Command{
	Use:   "stats <id>",
	Short: "Show or record access statistics",
	Long: `Show view and download counts of a record and of all its versions.

Counts are kept in Redis (LOM_REDIS_ADDR). Versions are looked up in the
configured store.

Examples:
  lom stats 5f0c...
  lom stats 5f0c... --record view`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsRecord, "record", "", "Record an event (view or download) before reporting")
	statsCmd.Flags().StringVar(&statsMonth, "month", "", "Only report the given month (YYYY-MM)")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if cfg.RedisAddr == "" {
		return fmt.Errorf("statistics need LOM_REDIS_ADDR")
	}
	counter, err := stats.NewRedisCounter(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer counter.Close() //nolint:errcheck

	id := args[0]
	if statsRecord != "" {
		e := stats.Event{RecordID: id, Type: stats.EventType(statsRecord), Time: time.Now()}
		if err := counter.Record(ctx, e); err != nil {
			return err
		}
	}

	svc, closeFn, err := openService(ctx, "stats")
	if err != nil {
		return err
	}
	defer closeFn()

	var versionIDs []string
	if versions, err := svc.Versions(ctx, id); err == nil {
		for _, v := range versions {
			versionIDs = append(versionIDs, v.ID())
		}
	}

	report := struct {
		stats.Aggregated
		Months []stats.Bucket `json:"months,omitempty"`
	}{}
	report.Aggregated, err = stats.Aggregate(ctx, counter, id, versionIDs)
	if err != nil {
		return err
	}
	months, err := counter.Months(ctx, id)
	if err != nil {
		return err
	}
	for _, m := range months {
		if statsMonth == "" || m.Month == statsMonth {
			report.Months = append(report.Months, m)
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

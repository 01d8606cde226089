package commands

import (
	"github.com/leapstack-labs/lintpromote/internal/backup"
	"github.com/spf13/cobra"
)

// NewBackupsCommand creates the backups command.
func NewBackupsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List backup snapshots",
		Long: `List the backup snapshots taken before each promotion, oldest first,
with the files each one holds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			snapshots, err := backup.List(cc.Cfg.BackupDir)
			if err != nil {
				return err
			}
			for i := range snapshots {
				snapshots[i].Dir = cc.rel(snapshots[i].Dir)
			}
			return cc.Reporter(cmd).Snapshots(snapshots)
		},
	}
}

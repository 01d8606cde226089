package commands

import (
	"github.com/leapstack-labs/lintpromote/internal/backup"
	"github.com/leapstack-labs/lintpromote/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewRestoreCommand creates the restore command.
func NewRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore [snapshot]",
		Short: "Restore target files from a backup snapshot",
		Long: `Copy the target files back from a backup snapshot. Without an argument
the newest snapshot is used. Targets missing from the snapshot are left
untouched, and the snapshot itself is kept.`,
		Example: `  lintpromote restore
  lintpromote restore 20250102_030405`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			snapshots, _ := backup.List(NewCommandContext(cmd).Cfg.BackupDir)
			names := make([]string, 0, len(snapshots))
			for _, s := range snapshots {
				names = append(names, s.Name)
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: runRestore,
	}
}

func runRestore(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)

	name := ""
	if len(args) == 1 {
		name = args[0]
	} else {
		latest, err := backup.Latest(cc.Cfg.BackupDir)
		if err != nil {
			return err
		}
		name = latest.Name
	}

	snapshot, err := backup.Open(cc.Cfg.BackupDir, name, cc.Logger)
	if err != nil {
		return err
	}
	targets, err := cc.Targets()
	if err != nil {
		return err
	}

	restored, err := snapshot.Restore(targets)
	restored = cc.relAll(restored)
	if err != nil {
		cc.Logger.Error("restore incomplete", "snapshot", name, "restored", len(restored), "error", err)
		return err
	}

	if cc.Renderer.EffectiveMode() == output.ModeJSON {
		return cc.Renderer.JSON(struct {
			Snapshot string   `json:"snapshot"`
			Restored []string `json:"restored"`
		}{Snapshot: name, Restored: restored})
	}
	cc.Reporter(cmd).Restored(name, restored)
	return nil
}

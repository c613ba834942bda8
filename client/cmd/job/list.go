package job

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/odpf/salt/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/srmds/takeoff/client/cmd/internal"
	"github.com/srmds/takeoff/client/cmd/internal/connection"
	"github.com/srmds/takeoff/client/cmd/internal/logger"
	"github.com/srmds/takeoff/core/deployment"
	"github.com/srmds/takeoff/core/job"
)

const listTimeout = time.Minute

type listCommand struct {
	logger  log.Logger
	flags   internal.ProjectFlags
	project *internal.Project
	all     bool
}

// NewListCommand initializes command to list the jobs of the application
func NewListCommand() *cobra.Command {
	list := &listCommand{
		logger: logger.NewDefaultLogger(),
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered jobs and what a deploy would do with them",
		Long: heredoc.Doc(`List the databricks jobs belonging to the application and show, for every
				job definition, whether a deploy of the current build creates a new job or
				resets existing ones.`),
		Example: "takeoff job list [--all]",
		RunE:    list.RunE,
		PreRunE: list.PreRunE,
	}
	list.flags.Inject(cmd.Flags())
	cmd.Flags().BoolVar(&list.all, "all", false, "List every job of the workspace")
	return cmd
}

func (l *listCommand) PreRunE(_ *cobra.Command, _ []string) error {
	project, err := internal.LoadProject(l.flags)
	if err != nil {
		return err
	}
	l.project = project
	l.logger = logger.NewClientLogger(project.Config.Log)
	return nil
}

func (l *listCommand) RunE(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), listTimeout)
	defer cancel()

	services := connection.New(l.project.Config, l.project.App, l.logger)
	client, err := services.DatabricksClient(ctx)
	if err != nil {
		return err
	}
	existing, err := client.ListJobs(ctx)
	if err != nil {
		return err
	}

	defs, err := jobDefinitions(l.project.Deployment)
	if err != nil {
		return err
	}
	runner := newRunner(l.project, l.logger)
	targets := make([]deployment.Target, len(defs))
	for i, def := range defs {
		targets[i] = runner.Target(def)
	}

	out := cmd.OutOrStdout()
	printJobs(out, existing, targets, l.project.App.ApplicationName, l.all)
	fmt.Fprintln(out)
	printPlan(out, existing, targets)
	return nil
}

func printJobs(out io.Writer, existing []job.Summary, targets []deployment.Target, applicationName string, all bool) {
	table := tablewriter.NewWriter(out)
	table.SetBorder(false)
	table.SetHeader([]string{"JOB ID", "NAME", "DEPLOYED BY"})

	for _, j := range existing {
		deployedBy := ""
		for _, t := range targets {
			if len(job.ResolveIDs(t.BaseName, "", []job.Summary{j})) > 0 {
				deployedBy = t.BaseName
				break
			}
		}
		if !all && deployedBy == "" && !belongsTo(j.Name, applicationName) {
			continue
		}
		table.Append([]string{strconv.FormatInt(j.ID, 10), j.Name, deployedBy})
	}
	table.Render()
}

func printPlan(out io.Writer, existing []job.Summary, targets []deployment.Target) {
	table := tablewriter.NewWriter(out)
	table.SetBorder(false)
	table.SetHeader([]string{"JOB", "ACTION", "JOB IDS"})

	for _, t := range targets {
		ids := job.ResolveIDs(t.BaseName, t.Qualifier, existing)
		action, idList := "create", "-"
		if len(ids) > 0 {
			action = "reset"
			idList = fmt.Sprint(ids)
		}
		table.Append([]string{t.Name, action, idList})
	}
	table.Render()
}

func belongsTo(jobName, applicationName string) bool {
	return jobName == applicationName || strings.HasPrefix(jobName, applicationName+"-")
}

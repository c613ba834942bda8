package job

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc"
	"github.com/odpf/salt/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/srmds/takeoff/client/cmd/internal"
	"github.com/srmds/takeoff/client/cmd/internal/logger"
	"github.com/srmds/takeoff/core/job"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

type renderCommand struct {
	logger  log.Logger
	flags   internal.ProjectFlags
	project *internal.Project

	jobName string
	output  string
}

// NewRenderCommand initializes command for rendering job documents
func NewRenderCommand() *cobra.Command {
	render := &renderCommand{
		logger: logger.NewDefaultLogger(),
	}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the job documents a deploy would submit",
		Long: heredoc.Doc(`Render the job templates of the deployment definition for the current build
				without calling databricks.`),
		Example: "takeoff job render [--name <job_name>] [--output yaml]",
		RunE:    render.RunE,
		PreRunE: render.PreRunE,
	}

	render.flags.Inject(cmd.Flags())
	cmd.Flags().StringVarP(&render.jobName, "name", "n", "", "Only render the job with this name")
	cmd.Flags().StringVarP(&render.output, "output", "o", outputJSON, "Output format, json or yaml")
	return cmd
}

func (r *renderCommand) PreRunE(_ *cobra.Command, _ []string) error {
	if r.output != outputJSON && r.output != outputYAML {
		return fmt.Errorf("unknown output format %s", r.output)
	}
	project, err := internal.LoadProject(r.flags)
	if err != nil {
		return err
	}
	r.project = project
	r.logger = logger.NewClientLogger(project.Config.Log)
	return nil
}

func (r *renderCommand) RunE(cmd *cobra.Command, _ []string) error {
	defs, err := jobDefinitions(r.project.Deployment)
	if err != nil {
		return err
	}

	runner := newRunner(r.project, r.logger)
	rendered := 0
	for _, def := range defs {
		target := runner.Target(def)
		if r.jobName != "" && r.jobName != target.Name && r.jobName != target.BaseName {
			continue
		}
		doc, _, err := runner.BuildJob(def)
		if err != nil {
			return err
		}
		if err := writeDocument(cmd.OutOrStdout(), doc, r.output); err != nil {
			return err
		}
		rendered++
	}
	if rendered == 0 {
		r.logger.Warn("no job definitions found to render")
	}
	return nil
}

func writeDocument(out io.Writer, doc *job.Document, format string) error {
	if format == outputYAML {
		raw, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "---\n%s", raw)
		return err
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(raw))
	return err
}

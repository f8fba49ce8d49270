package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/agents"
	"github.com/justsurfingit/careerkit/internal/output"
)

const (
	portfolioMarkdownFile = "Your_Portfolio_Roadmap.md"
	portfolioJSONFile     = "Your_Portfolio_Roadmap.json"
)

func (c *cli) certificateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "certificate [image]",
		Short: "Summarize the skills a certificate image proves",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := c.pipelines(cmd.Context())
			if err != nil {
				return c.printer.Error(err.Error())
			}
			out, err := suite.Certificate.Run(cmd.Context(), argOr(args, 0, "hello.png"))
			return c.emit(output.Report{Doc: out, Text: out.Summary}, err)
		},
	}
}

func (c *cli) githubCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "github [url]",
		Short: "Review a public GitHub profile",
		Long:  "Review a public GitHub profile. The URL is read from stdin when not given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := argOr(args, 0, "")
			if url == "" {
				var err error
				if url, err = c.prompt("Enter GitHub profile URL: "); err != nil {
					return c.printer.Error(err.Error())
				}
			}
			suite, err := c.pipelines(cmd.Context())
			if err != nil {
				return c.printer.Error(err.Error())
			}
			out, err := suite.GitHub.Run(cmd.Context(), url, "")
			return c.emit(output.Report{Doc: out, Text: out.Analysis}, err)
		},
	}
}

func (c *cli) careerRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "career-roles <job_analysis_json> <user_profile_json>",
		Short: "Suggest five career roles from a market analysis and a profile",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return c.fail("Usage: careerkit career-roles <job_analysis_json> <user_profile_json>")
			}
			var jobAnalysis, userProfile any
			if err := json.Unmarshal([]byte(args[0]), &jobAnalysis); err != nil {
				return c.fail("Invalid JSON input: " + err.Error())
			}
			if err := json.Unmarshal([]byte(args[1]), &userProfile); err != nil {
				return c.fail("Invalid JSON input: " + err.Error())
			}

			suite, err := c.pipelines(cmd.Context())
			if err != nil {
				return c.printer.Error(err.Error())
			}
			return c.emit(suite.CareerRoles.Run(cmd.Context(), jobAnalysis, userProfile))
		},
	}
}

func (c *cli) jobDemandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "job-demand [location...]",
		Short: "Analyze job demand, salaries and skills for a location",
		Long:  fmt.Sprintf("Analyze the tech job market of a location (default %q).", agents.DefaultLocation),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := c.pipelines(cmd.Context())
			if err != nil {
				return c.printer.Error(err.Error())
			}
			location := strings.TrimSpace(strings.Join(args, " "))
			return c.emit(suite.JobDemand.Run(cmd.Context(), location))
		},
	}
}

func (c *cli) personalityCmd() *cobra.Command {
	var instructions bool
	cmd := &cobra.Command{
		Use:   "personality [code]",
		Short: "Describe a 3-letter RIASEC (Holland) code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if instructions {
				out := agents.PersonalityOutput{Instructions: agents.PersonalityInstructions}
				return c.printer.Print(output.Report{Doc: out, Text: out.Instructions})
			}

			code := argOr(args, 0, "")
			if code == "" {
				fmt.Fprintln(c.stderr, "RIASEC Code Summary Generator")
				fmt.Fprintln(c.stderr, "Enter your 3-letter RIASEC code (e.g., 'RCE', 'IAS').")
				var err error
				if code, err = c.prompt("Enter your code: "); err != nil {
					return c.printer.Error(err.Error())
				}
			}
			suite, err := c.pipelines(cmd.Context())
			if err != nil {
				return c.printer.Error(err.Error())
			}
			out := suite.Personality.Run(cmd.Context(), code)
			return c.printer.Print(output.Report{Doc: out, Text: out.Summary})
		},
	}
	cmd.Flags().BoolVar(&instructions, "instructions", false, "Print the input instructions and exit")
	return cmd
}

func (c *cli) coursesCmd() *cobra.Command {
	var skills []string
	cmd := &cobra.Command{
		Use:   "courses [file]",
		Short: "Recommend courses for the skill gaps in a skill-pathway report",
		Long: `Recommend two catalogue courses per skill gap. Gaps are read from the
missing_technical_skills and missing_soft_skills lists of a skill-pathway
JSON report (default skill_pathway.txt) unless --skills is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return c.printer.Error(err.Error())
			}
			if len(skills) == 0 {
				path := argOr(args, 0, "skill_pathway.txt")
				text, err := a.Files.Text(cmd.Context(), path)
				if err != nil {
					return c.printer.Error(fmt.Sprintf("Failed to read %s: %v", path, err))
				}
				skills = agents.ExtractSkillGaps(text)
			}
			c.log.Info("skills to improve", zap.Strings("skills", skills))

			out, err := a.Suite.Courses.Run(cmd.Context(), skills)
			return c.emit(output.Report{Doc: out, Text: out.CourseRecommendations}, err)
		},
	}
	cmd.Flags().StringSliceVar(&skills, "skills", nil, "Comma-separated skills instead of reading a file")
	return cmd
}

func (c *cli) portfolioCmd() *cobra.Command {
	var saveDir string
	cmd := &cobra.Command{
		Use:   "portfolio [file]",
		Short: "Plan a three-project portfolio roadmap from a profile text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := argOr(args, 0, "")
			if path == "" {
				var err error
				if path, err = c.prompt("Please enter the full path to your profile .txt file: "); err != nil {
					return c.printer.Error(err.Error())
				}
			}
			a, err := c.application(cmd.Context())
			if err != nil {
				return c.printer.Error(err.Error())
			}
			profile, err := a.Files.Text(cmd.Context(), path)
			if err != nil {
				return c.printer.Error(err.Error())
			}
			out, err := a.Suite.Portfolio.Run(cmd.Context(), profile)
			if err != nil {
				return c.printer.Error(err.Error())
			}
			if saveDir != "" {
				if err := savePortfolio(saveDir, out); err != nil {
					return c.printer.Error(err.Error())
				}
				c.log.Info("roadmap saved", zap.String("dir", saveDir))
			}
			return c.printer.Print(output.Report{Doc: out, Text: out.FinalGuide})
		},
	}
	cmd.Flags().StringVar(&saveDir, "save-dir", "", "Also write "+portfolioMarkdownFile+" and "+portfolioJSONFile+" to this directory")
	return cmd
}

func savePortfolio(dir string, out agents.PortfolioOutput) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if out.FinalGuide != "" {
		if err := os.WriteFile(filepath.Join(dir, portfolioMarkdownFile), []byte(out.FinalGuide), 0o644); err != nil {
			return err
		}
	}
	f, err := os.Create(filepath.Join(dir, portfolioJSONFile))
	if err != nil {
		return err
	}
	if err := output.WriteJSON(f, out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c *cli) imageReportCmd(name, short, defaultImage string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [image]",
		Short: short,
		Long:  fmt.Sprintf("%s. The image defaults to %s; r2:// and s3:// references are read from object storage.", short, defaultImage),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := c.pipelines(cmd.Context())
			if err != nil {
				return c.printer.Error(err.Error())
			}
			pipeline := suite.Resume
			if name == agents.KindTranscript {
				pipeline = suite.Transcript
			}
			out, err := pipeline.Run(cmd.Context(), argOr(args, 0, defaultImage))
			return c.emit(output.Report{Doc: out, Text: out.Analysis}, err)
		},
	}
}

func (c *cli) skillPathwayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skill-pathway [target_career] [user_doc]",
		Short: "Plan a learning pathway from a user document to a target career",
		Long: `Plan a learning pathway from a user document (txt, pdf or docx) to a
target career. Defaults to "Machine Learning Engineer" and user.txt.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := argOr(args, 0, "Machine Learning Engineer")
			docPath := argOr(args, 1, "user.txt")

			a, err := c.application(cmd.Context())
			if err != nil {
				return c.printer.Error(err.Error())
			}
			document, err := a.Files.Text(cmd.Context(), docPath)
			if err != nil {
				return c.printer.Error(fmt.Sprintf("Failed to load user document: %v", err))
			}
			out, err := a.Suite.SkillPathway.Run(cmd.Context(), target, document)
			if err != nil {
				return c.printer.Error(fmt.Sprintf("Failed to generate skill pathway: %v", err))
			}
			return c.printer.Print(output.Report{Doc: out, Text: out.FinalExplanation})
		},
	}
}

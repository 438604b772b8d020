package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/campushq/voicedesk/internal/agent"
	"github.com/campushq/voicedesk/internal/college"
	"github.com/campushq/voicedesk/internal/config"
	"github.com/campushq/voicedesk/internal/db"
	"github.com/campushq/voicedesk/internal/templates"
)

var seedDemo bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with a college profile via an interactive wizard",
	Long: `Runs an interactive wizard that creates the college profile, a default
assistant configuration and a starter SMS template. Use --demo to load
the full demo profile without prompts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		database, err := db.Open(filepath.Join(cfg.DataDir, "voicedesk.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		info := demoCollege()
		if !seedDemo {
			info, err = runSeedWizard()
			if err != nil {
				return err
			}
		}

		ctx := context.Background()
		if err := college.NewStore(database).Upsert(ctx, info); err != nil {
			return fmt.Errorf("saving college profile: %w", err)
		}

		agentCfg := &agent.Config{
			Enabled: true,
			FirstMessage: fmt.Sprintf("Hello! Welcome to %s. I'm your AI admissions assistant. How can I help you today?",
				info.Name),
			Tone:     "friendly",
			Language: "English",
		}
		if err := agent.NewStore(database).Upsert(ctx, agentCfg); err != nil {
			return fmt.Errorf("saving agent config: %w", err)
		}

		templateStore := templates.NewStore(database)
		existing, err := templateStore.List(ctx)
		if err != nil {
			return fmt.Errorf("listing templates: %w", err)
		}
		if len(existing) == 0 {
			err = templateStore.Create(ctx, &templates.Template{
				Name:    "Post-call thank you",
				Channel: "sms",
				Body:    "Thanks for calling {college}! {summary} Visit {website} for more info.",
				Enabled: true,
			})
			if err != nil {
				return fmt.Errorf("creating starter template: %w", err)
			}
		}

		fmt.Printf("Seeded profile for %s into %s\n", info.Name, filepath.Join(cfg.DataDir, "voicedesk.db"))
		return nil
	},
}

// runSeedWizard collects the essentials interactively. Courses,
// facilities and the rest are edited later through the admin API.
func runSeedWizard() (*college.Info, error) {
	fmt.Println("Welcome to voicedesk! Let's set up your college profile.")
	fmt.Println()

	namePrompt := promptui.Prompt{
		Label: "College name",
		Validate: func(s string) error {
			if s == "" {
				return fmt.Errorf("name is required")
			}
			return nil
		},
	}
	name, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("college name: %w", err)
	}

	taglinePrompt := promptui.Prompt{Label: "Tagline", Default: ""}
	tagline, err := taglinePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("tagline: %w", err)
	}

	websitePrompt := promptui.Prompt{Label: "Website", Default: ""}
	website, err := websitePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("website: %w", err)
	}

	phonePrompt := promptui.Prompt{Label: "Admissions phone", Default: ""}
	phone, err := phonePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("phone: %w", err)
	}

	emailPrompt := promptui.Prompt{Label: "Admissions email", Default: ""}
	email, err := emailPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("email: %w", err)
	}

	admissionPrompt := promptui.Prompt{
		Label:   "Admission process (one line)",
		Default: "Contact the admissions desk for the current process.",
	}
	admission, err := admissionPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("admission process: %w", err)
	}

	return &college.Info{
		Name:             name,
		Tagline:          tagline,
		Website:          website,
		AdmissionProcess: admission,
		Contact: college.Contact{
			Email: email,
			Phone: phone,
		},
	}, nil
}

// demoCollege returns the demo profile used by --demo and local
// development.
func demoCollege() *college.Info {
	fees := "Contact for current fee structure"
	btech := "12th with PCM, JEE/OUAT"
	return &college.Info{
		Name:    "Balasore College of Engineering and Technology",
		Tagline: "25 Glorious Years of Excellence (2001-2025)",
		About: "BCET saw light in the year 2001 at Balasore, Odisha. Managed by " +
			"Fakir Mohan Educational and Charitable Trust, it is approved by AICTE, " +
			"recognized by Govt. of Odisha, and affiliated to BPUT.",
		Courses: []college.Course{
			{Name: "B.Tech Computer Science & Engineering", Duration: "4 Years", Fees: fees, Eligibility: btech},
			{Name: "B.Tech Information Technology", Duration: "4 Years", Fees: fees, Eligibility: btech},
			{Name: "B.Tech Electrical Engineering", Duration: "4 Years", Fees: fees, Eligibility: btech},
			{Name: "B.Tech Mechanical Engineering", Duration: "4 Years", Fees: fees, Eligibility: btech},
			{Name: "B.Tech Civil Engineering", Duration: "4 Years", Fees: fees, Eligibility: btech},
			{Name: "M.Tech", Duration: "2 Years", Fees: fees, Eligibility: "B.Tech/BE in relevant branch"},
			{Name: "MBA", Duration: "2 Years", Fees: fees, Eligibility: "Graduation in any stream"},
			{Name: "MCA", Duration: "3 Years", Fees: fees, Eligibility: "Graduation with Mathematics"},
		},
		Facilities: []college.Facility{
			{Name: "Digital Classrooms", Description: "Digital classes in all classrooms with modern teaching aids"},
			{Name: "Central Library", Description: "Extensive collection of books and digital resources"},
			{Name: "Hostel", Description: "Dr. APJ Abdul Kalam Hall of Residence - Wi-Fi enabled, mess, 24/7 security"},
			{Name: "Sports Complex", Description: "Annual Sports Meet and Charisma cultural fest"},
		},
		HostelDetails: college.Hostel{
			Description: "Dr. APJ Abdul Kalam Hall of Residence with Wi-Fi, mess, and secure accommodation",
			Fees:        "Contact college for hostel fees",
		},
		AdmissionProcess: "Admissions through JEE/OUAT for B.Tech. Visit bcetodisha.ac.in/admission.php or call the admission helpline.",
		Founder:          "Dr. Manmath Kumar Biswal",
		Chairman:         "Dr. Manmath Kumar Biswal (Founder-Chairman)",
		Director:         "Prof. (Dr.) Ratikanta Sahoo",
		Website:          "bcetodisha.ac.in",
		Contact: college.Contact{
			Email:   "principal@bcetodisha.ac.in",
			Phone:   "(06782) 236045, 9777938474",
			Address: "NH-16, Sergarh, Balasore (756060), Odisha",
		},
	}
}

func init() {
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "seed the demo college profile without prompts")
	rootCmd.AddCommand(seedCmd)
}

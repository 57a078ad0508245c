package ai

import (
	"time"

	"github.com/soulease/guidance/internal/domain"
)

// Fallback supplies fixed, fully-populated results when the pipeline cannot
// produce a real one. It is the terminal handler: it always succeeds and
// every field of every record is populated.
type Fallback struct {
	now func() time.Time
}

// NewFallback constructs a Fallback using wall-clock time.
func NewFallback() *Fallback { return &Fallback{now: time.Now} }

// NewFallbackAt constructs a Fallback with an injected clock.
func NewFallbackAt(now func() time.Time) *Fallback { return &Fallback{now: now} }

// Recommendations returns the fixed recommendation catalog. The slice is
// freshly allocated on each call so callers may not mutate shared state.
func (f *Fallback) Recommendations() []domain.CareerRecommendation {
	return []domain.CareerRecommendation{
		{
			ID:                "software-engineer",
			Title:             "Software Engineer",
			Description:       "Design and build software systems, from web applications to infrastructure tooling.",
			Industry:          "Technology",
			Compatibility:     85,
			SalaryRange:       "$70,000 - $140,000",
			Growth:            domain.GrowthHigh,
			WorkEnvironment:   "Office or remote, collaborative product teams",
			EducationRequired: "Bachelor's degree in computer science or equivalent experience",
			MatchReasons: []string{
				"Strong demand across industries gives flexibility in choosing ethical employers",
				"Remote-friendly work supports prayer times and family obligations",
			},
			IslamicPerspective: domain.StructuredPerspective(domain.PerspectiveDetail{
				Alignment:   "High",
				Description: "Building useful technology is a form of benefiting people; halal income is straightforward to maintain by choosing projects carefully.",
				Considerations: []string{
					"Avoid roles centered on interest-based finance, gambling, or harmful content",
				},
			}),
			Skills:    []string{"Programming", "Problem solving", "System design", "Communication"},
			Companies: []string{"Product companies", "Consultancies", "Public sector"},
			JobTitles: []string{"Backend Engineer", "Full-Stack Developer", "Site Reliability Engineer"},
			NextSteps: []string{
				"Pick one language and build two portfolio projects",
				"Contribute to an open-source project you use",
			},
		},
		{
			ID:                "teacher",
			Title:             "Teacher",
			Description:       "Educate and mentor students at school or university level.",
			Industry:          "Education",
			Compatibility:     80,
			SalaryRange:       "$40,000 - $75,000",
			Growth:            domain.GrowthMedium,
			WorkEnvironment:   "Schools and universities, structured hours",
			EducationRequired: "Bachelor's degree plus teaching certification",
			MatchReasons: []string{
				"Direct service to the community through knowledge",
				"Predictable schedule leaves room for worship and family",
			},
			IslamicPerspective: domain.TextPerspective(
				"Teaching is among the most honored work in Islam; transmitting beneficial knowledge is ongoing charity (sadaqah jariyah).",
			),
			Skills:    []string{"Subject expertise", "Patience", "Public speaking", "Curriculum design"},
			Companies: []string{"Public schools", "Islamic schools", "Universities", "Tutoring platforms"},
			JobTitles: []string{"Classroom Teacher", "Lecturer", "Instructional Designer"},
			NextSteps: []string{
				"Shadow a teacher for a week in your subject area",
				"Research certification requirements in your region",
			},
		},
		{
			ID:                "physician",
			Title:             "Physician",
			Description:       "Diagnose and treat patients in clinical or hospital settings.",
			Industry:          "Healthcare",
			Compatibility:     78,
			SalaryRange:       "$150,000 - $300,000",
			Growth:            domain.GrowthHigh,
			WorkEnvironment:   "Hospitals and clinics, demanding hours",
			EducationRequired: "Medical degree plus residency",
			MatchReasons: []string{
				"Healing is a direct, tangible service to people",
				"High earning potential enables generous charity",
			},
			IslamicPerspective: domain.StructuredPerspective(domain.PerspectiveDetail{
				Alignment:   "Very High",
				Description: "Saving a life is described in the Quran as saving all of humanity; medicine embodies this.",
				Considerations: []string{
					"Long training years require patience and financial planning",
					"On-call schedules can strain family and worship routines",
				},
			}),
			Skills:    []string{"Clinical knowledge", "Empathy", "Decision-making under pressure"},
			Companies: []string{"Hospitals", "Community clinics", "Relief organizations"},
			JobTitles: []string{"General Practitioner", "Internist", "Emergency Physician"},
			NextSteps: []string{
				"Volunteer at a local clinic to confirm the fit",
				"Map out the admission requirements for medical school",
			},
		},
		{
			ID:                "business-owner",
			Title:             "Business Owner",
			Description:       "Build and run your own trade or service business.",
			Industry:          "Entrepreneurship",
			Compatibility:     76,
			SalaryRange:       "Variable, $30,000 - $200,000+",
			Growth:            domain.GrowthMedium,
			WorkEnvironment:   "Self-directed, variable hours",
			EducationRequired: "No formal requirement; domain knowledge essential",
			MatchReasons: []string{
				"Full control over the halal nature of income and dealings",
				"Flexibility to shape work around prayer and family",
			},
			IslamicPerspective: domain.TextPerspective(
				"Honest trade is a sunnah; the truthful merchant is promised the company of the prophets and the righteous.",
			),
			Skills:    []string{"Sales", "Financial literacy", "Resilience", "Leadership"},
			Companies: []string{"Your own venture"},
			JobTitles: []string{"Founder", "Shop Owner", "Consultant"},
			NextSteps: []string{
				"Validate one business idea with ten potential customers",
				"Learn the basics of halal business financing",
			},
		},
	}
}

// Analysis returns a generic compatibility analysis for a career title.
func (f *Fallback) Analysis(careerTitle string) domain.CompatibilityAnalysis {
	return domain.CompatibilityAnalysis{
		CareerTitle:   careerTitle,
		Compatibility: DefaultCompatibility,
		MatchReasons: []string{
			"Your assessment suggests a balanced skill set applicable to this field",
			"The field offers room to align daily work with your values",
		},
		Challenges: []string{
			"Entry requirements and competition vary by region",
			"Detailed fit depends on answers we could not analyze right now",
		},
		IslamicPerspective: domain.TextPerspective(
			"Any profession built on honesty and benefit to people can be a path of worship; verify the halal nature of the specific role and employer.",
		),
		NextSteps: []string{
			"Speak with two practitioners in this field",
			"Retry the detailed analysis later",
		},
		GeneratedAt: f.now().UTC(),
	}
}

// Advice returns generic guidance used when free-form advice cannot be
// generated.
func (f *Fallback) Advice() string {
	return "We could not generate personalized advice right now. As a general principle: seek work that is halal, benefits people, and leaves room for your worship and family. Make istikhara, consult people you trust in the field, and take one small concrete step this week. Please try again shortly for advice tailored to your question."
}

package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Customizations is the client-supplied content a template is filled with.
type Customizations struct {
	BusinessName        string `json:"businessName"`
	BusinessDescription string `json:"businessDescription"`
	Industry            string `json:"industry"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Address             string `json:"address"`
	PrimaryColor        string `json:"primaryColor"`
	SecondaryColor      string `json:"secondaryColor"`
	Logo                string `json:"logo,omitempty"`
	IncludeContactForm  bool   `json:"includeContactForm"`
	IncludeMaps         bool   `json:"includeMaps"`
	IncludeSocial       bool   `json:"includeSocial"`
	IncludeSEO          bool   `json:"includeSEO"`
}

type templateContext struct {
	Customizations
	CurrentYear    int
	GeneratedDate  string
	MapEmbedURL    string
	SEOTitle       string
	SEODescription string
}

type TemplateInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Industries  []string `json:"industries"`
	Features    []string `json:"features"`
}

type Service struct {
	templatesDir string
}

func NewService(templatesDir string) *Service {
	return &Service{templatesDir: templatesDir}
}

// Generate renders the named website template with the customizations.
func (s *Service) Generate(templateName string, customizations json.RawMessage) (string, error) {
	var c Customizations
	if err := json.Unmarshal(customizations, &c); err != nil {
		return "", fmt.Errorf("invalid customizations: %w", err)
	}

	tmplPath := filepath.Join(s.templatesDir, templateName+".html")
	if _, err := os.Stat(tmplPath); err != nil {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	ctx := templateContext{
		Customizations: c,
		CurrentYear:    time.Now().Year(),
		GeneratedDate:  time.Now().Format("January 2, 2006"),
		SEOTitle:       fmt.Sprintf("%s - %s", c.BusinessName, industryTitle(c.Industry)),
		SEODescription: truncate(c.BusinessDescription, 160),
	}
	if c.IncludeMaps && c.Address != "" {
		ctx.MapEmbedURL = "https://www.google.com/maps/embed/v1/place?q=" + url.QueryEscape(c.Address)
	}

	var out bytes.Buffer
	if err := t.Execute(&out, ctx); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", templateName, err)
	}

	return out.String(), nil
}

// AvailableTemplates returns the template catalog shown in the dashboard.
func (s *Service) AvailableTemplates() []TemplateInfo {
	return []TemplateInfo{
		{
			ID:          "restaurant",
			Name:        "Restaurant Pro",
			Description: "Perfect for restaurants, cafes, and food services",
			Industries:  []string{"restaurant", "cafe", "catering"},
			Features:    []string{"Menu showcase", "Reservation system", "Location map", "Photo gallery"},
		},
		{
			ID:          "professional",
			Name:        "Professional Suite",
			Description: "Ideal for law firms, consultants, and agencies",
			Industries:  []string{"legal", "consulting", "finance", "professional"},
			Features:    []string{"Service pages", "Team profiles", "Testimonials", "Contact forms"},
		},
		{
			ID:          "retail",
			Name:        "Retail Store",
			Description: "Great for shops, boutiques, and retail businesses",
			Industries:  []string{"retail", "fashion", "electronics", "jewelry"},
			Features:    []string{"Product showcase", "Store locator", "Contact info", "Business hours"},
		},
		{
			ID:          "healthcare",
			Name:        "Healthcare Plus",
			Description: "Designed for medical practices and healthcare",
			Industries:  []string{"healthcare", "dental", "medical", "clinic"},
			Features:    []string{"Services list", "Appointment info", "Staff profiles", "Insurance info"},
		},
	}
}

func industryTitle(industry string) string {
	titles := map[string]string{
		"restaurant":   "Fine Dining & Cuisine",
		"retail":       "Shopping & Retail",
		"professional": "Professional Services",
		"healthcare":   "Healthcare & Medical Services",
		"automotive":   "Automotive Services",
		"beauty":       "Beauty & Wellness",
		"fitness":      "Fitness & Health",
		"education":    "Education & Training",
	}

	if title, ok := titles[industry]; ok {
		return title
	}
	return "Professional Services"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

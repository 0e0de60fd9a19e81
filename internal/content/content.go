// Package content is the bundled, read-only copy behind the portfolio pages.
package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var siteYAML []byte

type Link struct {
	Label string `yaml:"label"`
	Icon  string `yaml:"icon"`
	URL   string `yaml:"url"`
}

type Profile struct {
	Name    string `yaml:"name"`
	Image   string `yaml:"image"`
	Tagline string `yaml:"tagline"`
	Footer  string `yaml:"footer"`
	Links   []Link `yaml:"links"`
}

type Project struct {
	Slug            string   `yaml:"slug"`
	Title           string   `yaml:"title"`
	Subtitle        string   `yaml:"subtitle"`
	Description     string   `yaml:"description"`
	LongDescription string   `yaml:"long_description,omitempty"`
	Technologies    []string `yaml:"technologies"`
	Link            string   `yaml:"link,omitempty"`
}

type Milestone struct {
	Years string `yaml:"years"`
	Label string `yaml:"label"`
}

type Role struct {
	Period string `yaml:"period"`
	Title  string `yaml:"title"`
}

type Position struct {
	Organization string `yaml:"organization"`
	Roles        []Role `yaml:"roles"`
}

type Timeline struct {
	Milestones []Milestone `yaml:"milestones"`
	Positions  []Position  `yaml:"positions"`
}

type Education struct {
	Institution string `yaml:"institution"`
	Credential  string `yaml:"credential"`
}

type Highlight struct {
	Title   string `yaml:"title"`
	URL     string `yaml:"url"`
	Caption string `yaml:"caption"`
}

type Site struct {
	Profile    Profile     `yaml:"profile"`
	Projects   []Project   `yaml:"projects"`
	Timeline   Timeline    `yaml:"timeline"`
	Education  []Education `yaml:"education"`
	Highlights []Highlight `yaml:"highlights"`

	bySlug map[string]int
}

// Load parses the bundled site content.
func Load() (*Site, error) {
	return Parse(siteYAML)
}

// Parse decodes site content and checks that every project has a unique slug
// and a title.
func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse site content: %w", err)
	}

	s.bySlug = make(map[string]int, len(s.Projects))
	for i, p := range s.Projects {
		if p.Slug == "" || p.Title == "" {
			return nil, fmt.Errorf("project %d needs a slug and a title", i)
		}
		if _, dup := s.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("duplicate project slug %q", p.Slug)
		}
		s.bySlug[p.Slug] = i
	}
	return &s, nil
}

// Project looks a project up by slug.
func (s *Site) Project(slug string) (Project, bool) {
	i, ok := s.bySlug[slug]
	if !ok {
		return Project{}, false
	}
	return s.Projects[i], true
}

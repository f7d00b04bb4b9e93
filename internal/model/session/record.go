package session

import (
	"fmt"
	"log"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mindbotz/team-zephyra/internal/model/persona"
)

// Record holds the user-derived facts accumulated over one conversation,
// shared by every persona. PreviousPersona is a name resolved through the
// registry, never a pointer; the registry owns the personas.
type Record struct {
	CustomerName     string
	CustomerPhone    string
	ResumeSkills     []string
	ResumeExperience []string

	Personas        *persona.Registry
	PreviousPersona string
}

// NewRecord returns an empty record backed by the given registry.
func NewRecord(personas *persona.Registry) *Record {
	return &Record{Personas: personas}
}

// summaryDoc pins the field order of the YAML summary.
type summaryDoc struct {
	CustomerName  string   `yaml:"customer_name"`
	CustomerPhone string   `yaml:"customer_phone"`
	Skills        []string `yaml:"skills"`
	Experience    []string `yaml:"experience"`
}

// Summarize renders the currently known facts as YAML. Missing fields are
// never an error: strings fall back to "unknown", sequences stay empty.
func (r *Record) Summarize() string {
	doc := summaryDoc{
		CustomerName:  orUnknown(r.CustomerName),
		CustomerPhone: orUnknown(r.CustomerPhone),
		Skills:        r.ResumeSkills,
		Experience:    r.ResumeExperience,
	}
	if doc.Skills == nil {
		doc.Skills = []string{}
	}
	if doc.Experience == nil {
		doc.Experience = []string{}
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		log.Printf("[session] failed to marshal summary: %v", err)
		return ""
	}
	return string(out)
}

// SetName writes the customer name and returns a confirmation.
func (r *Record) SetName(name string) string {
	r.CustomerName = name
	return fmt.Sprintf("Great, your name is now set to %s.", name)
}

// SetPhone writes the customer phone number and returns a confirmation.
func (r *Record) SetPhone(phone string) string {
	r.CustomerPhone = phone
	return fmt.Sprintf("Got it—your phone number is updated to %s.", phone)
}

// SetSkills replaces the resume skill list and returns a confirmation.
func (r *Record) SetSkills(skills []string) string {
	r.ResumeSkills = skills
	return fmt.Sprintf("Fantastic! Your skills have been updated: %s.", strings.Join(skills, ", "))
}

// SetExperience replaces the resume experience list and returns a confirmation.
func (r *Record) SetExperience(experience []string) string {
	r.ResumeExperience = experience
	return fmt.Sprintf("Experience recorded: %s.", strings.Join(experience, ", "))
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

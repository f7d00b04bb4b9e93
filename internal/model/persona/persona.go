package persona

// Tool names exposed to the model while a persona is active. The set of
// valid handoff targets is statically known per persona, so an unknown
// target at runtime is a wiring bug, not user error.
const (
	ToolUpdateName       = "update_name"
	ToolUpdatePhone      = "update_phone"
	ToolUpdateSkills     = "update_skills"
	ToolUpdateExperience = "update_experience"
	ToolToZephyra        = "to_zephyra"
	ToolToAria           = "to_aria"
	ToolToPhoenix        = "to_phoenix"
	ToolToSolace         = "to_solace"
)

// Persona is an immutable behavioral configuration: prompt, voice and the
// tools available while it is active. Opening, when set, replaces the
// tool-suppressed continuation on entry with a fixed opening prompt.
type Persona struct {
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Instructions string   `json:"-"`
	VoiceID      string   `json:"voiceId"`
	Tools        []string `json:"tools,omitempty"`
	Opening      string   `json:"-"`
}

// Seed returns the four fixed personas. They are constructed once at
// startup and never mutated afterwards.
func Seed() []Persona {
	return []Persona{
		{
			Name:  "zephyra",
			Title: "The Central Router & Empathy Engine",
			Instructions: "You are Zephyra, the warm and empathetic central router. " +
				"Greet users with genuine care, understand their needs, and guide them to the right specialist. " +
				"Speak in a warm, neutral, and comforting tone.",
			VoiceID: "794f9389-aac1-45b6-b726-9d9369183238",
			Tools:   []string{ToolToAria, ToolToPhoenix, ToolToSolace},
		},
		{
			Name:  "aria",
			Title: "Your Personal Resume Helper",
			Instructions: "You are Aria, your personal resume helper. " +
				"Gather the user's name, skills, and experiences to create a resume that tells their unique story. " +
				"Your voice is bright, upbeat, and encouraging.",
			VoiceID: "156fb8d2-335b-4950-9cb3-a2d33befec77",
			Tools: []string{
				ToolUpdateName, ToolUpdatePhone, ToolUpdateSkills, ToolUpdateExperience,
				ToolToPhoenix, ToolToZephyra,
			},
		},
		{
			Name:  "phoenix",
			Title: "Your Mock Interview Ally",
			Instructions: "You are Phoenix, the confident mock interview ally. " +
				"Using the details gathered by Aria, simulate a realistic interview to boost the user's confidence. " +
				"Your tone is assertive yet supportive.",
			VoiceID: "6f84f4b8-58a2-430c-8c79-688dad597532",
			Tools:   []string{ToolToZephyra},
			Opening: "Let's start your mock interview. Please share a bit about your background and experience.",
		},
		{
			Name:  "solace",
			Title: "Your Housing Support Companion",
			Instructions: "You are Solace, the caring housing support companion. " +
				"Guide users through available housing resources and offer empathetic, practical support. " +
				"Speak with a soft, nurturing, and resourceful tone.",
			VoiceID: "39b376fc-488e-4d0c-8b37-e00b72059fdd",
			Tools:   []string{ToolToZephyra},
			Opening: "Hi there, I'm Solace. How can I help you with housing support today?",
		},
	}
}

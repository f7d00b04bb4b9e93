package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/mindbotz/team-zephyra/internal/model/persona"
	"github.com/mindbotz/team-zephyra/internal/service/handoff"
)

func toolInfos(names []string) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(names))
	for _, name := range names {
		info, ok := toolCatalog[name]
		if !ok {
			return nil, fmt.Errorf("unknown tool %q", name)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

var toolCatalog = map[string]*schema.ToolInfo{
	persona.ToolUpdateName: {
		Name: persona.ToolUpdateName,
		Desc: "Record the user's name once they share it.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"name": {
				Type:     schema.String,
				Desc:     "Tell me your name, so I know who I'm speaking with.",
				Required: true,
			},
		}),
	},
	persona.ToolUpdatePhone: {
		Name: persona.ToolUpdatePhone,
		Desc: "Record the user's phone number for further contact.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"phone": {
				Type:     schema.String,
				Desc:     "Please provide your phone number for further contact.",
				Required: true,
			},
		}),
	},
	persona.ToolUpdateSkills: {
		Name: persona.ToolUpdateSkills,
		Desc: "Record the user's skills for their resume.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"skills": {
				Type:     schema.Array,
				Desc:     "List your skills so we can highlight them.",
				ElemInfo: &schema.ParameterInfo{Type: schema.String},
				Required: true,
			},
		}),
	},
	persona.ToolUpdateExperience: {
		Name: persona.ToolUpdateExperience,
		Desc: "Record the user's work or life experiences for their resume.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"experience": {
				Type:     schema.Array,
				Desc:     "Share your work or life experiences to enrich your resume.",
				ElemInfo: &schema.ParameterInfo{Type: schema.String},
				Required: true,
			},
		}),
	},
	persona.ToolToZephyra: {
		Name: persona.ToolToZephyra,
		Desc: "Transfer the conversation back to Zephyra, the central router.",
	},
	persona.ToolToAria: {
		Name: persona.ToolToAria,
		Desc: "Transfer the conversation to Aria, the resume helper.",
	},
	persona.ToolToPhoenix: {
		Name: persona.ToolToPhoenix,
		Desc: "Transfer the conversation to Phoenix, the mock interview ally.",
	},
	persona.ToolToSolace: {
		Name: persona.ToolToSolace,
		Desc: "Transfer the conversation to Solace, the housing support companion.",
	},
}

// dispatch runs one tool call against the session. Data-update tools mutate
// the record and return a confirmation; handoff tools additionally return
// the next persona. An unknown handoff target aborts the turn: the toolset
// is static, so it signals a wiring bug.
func (s *Session) dispatch(call schema.ToolCall) (output string, next *persona.Persona, err error) {
	name := call.Function.Name
	args := call.Function.Arguments

	switch name {
	case persona.ToolUpdateName:
		var in struct {
			Name string `json:"name"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return "", nil, err
		}
		return s.record.SetName(in.Name), nil, nil

	case persona.ToolUpdatePhone:
		var in struct {
			Phone string `json:"phone"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return "", nil, err
		}
		return s.record.SetPhone(in.Phone), nil, nil

	case persona.ToolUpdateSkills:
		var in struct {
			Skills []string `json:"skills"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return "", nil, err
		}
		return s.record.SetSkills(in.Skills), nil, nil

	case persona.ToolUpdateExperience:
		var in struct {
			Experience []string `json:"experience"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return "", nil, err
		}
		return s.record.SetExperience(in.Experience), nil, nil

	case persona.ToolToZephyra, persona.ToolToAria, persona.ToolToPhoenix, persona.ToolToSolace:
		target := strings.TrimPrefix(name, "to_")
		nextPersona, notice, err := handoff.Transfer(target, s.record, s.active)
		if err != nil {
			return "", nil, err
		}
		return notice, nextPersona, nil
	}

	return "", nil, fmt.Errorf("unknown tool %q", name)
}

func decodeArgs(raw string, out any) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("invalid tool arguments %q: %w", raw, err)
	}
	return nil
}

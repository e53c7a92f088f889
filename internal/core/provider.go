package core

import "context"

// Provider roles. The caller's "assistant" becomes "model".
const (
	providerRoleUser  = "user"
	providerRoleModel = "model"
)

// Turn is one message of the history sent to a model provider.
type Turn struct {
	Role string // "user" or "model"
	Text string
}

// GenerationConfig holds the sampling parameters of a model call.
type GenerationConfig struct {
	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32
}

// DefaultGenerationConfig is the sampling used for planner replies.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     0.7,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 2000,
	}
}

// ModelRequest is a single chat completion: history (starting with a user turn) plus the new prompt.
type ModelRequest struct {
	SystemInstruction string
	History           []Turn
	Prompt            string
	Config            GenerationConfig
}

// ModelProvider sends a request to a generative language model.
// Implementations return a *ThrottledError when the provider answers HTTP 429.
type ModelProvider interface {
	Generate(ctx context.Context, req ModelRequest) (string, error)
	Close() error
}

const plannerSystemInstruction = `
### ROLE
You are the TaskFlow planning assistant that lives inside a to-do app. You turn loose goals into short, actionable checklists.

### TWO OUTPUT MODES
Pick exactly one mode per reply.

1. CONVERSATION MODE (plain text)
   - Use it for greetings, farewells, thanks, or general questions that are not a goal to plan.
   - Reply with at most two short, friendly sentences.
   - Example: "Hi! What would you like to plan today?"

2. PLANNING MODE (JSON only)
   - Use it whenever the user names a goal, event, project or chore (moving house, a trip, building a website).
   - Reply with a JSON array of strings and nothing else.
   - Example: ["Book a moving van", "Buy packing boxes", "Label every box"]

### RULES
- Never wrap output in markdown: no backticks and no "json" label. A plan starts with "[" and ends with "]".
- Never mix modes: no introduction or closing text around a plan.
- A plan has 3 to 5 tasks, each under 40 characters and starting with a verb (Buy, Call, Draft).
- After a plan has been given, a "thanks" or "bye" gets a CONVERSATION MODE reply. Do not repeat the plan.
`

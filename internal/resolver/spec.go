package resolver

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/profile-resolver/internal/engine"
)

// outputSchemaJSON is the fixed output schema carried by every submission.
// It is identical across all jobs; only the instruction text varies. The same
// document validates the engine's completed output at the boundary.
const outputSchemaJSON = `{
  "type": "object",
  "properties": {
    "profiles": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "platform": {
            "type": "string",
            "description": "Platform identifier, e.g. twitter, github, linkedin"
          },
          "profile_url": {
            "type": "string",
            "description": "Canonical URL of the candidate profile"
          },
          "is_self_proclaimed": {
            "type": "boolean",
            "description": "True when the profile is mentioned directly in the input"
          },
          "is_self_referring": {
            "type": "boolean",
            "description": "True when the profile cross-references other matches"
          },
          "confidence": {
            "type": "number",
            "minimum": 0,
            "maximum": 1,
            "description": "Conservative confidence that this profile belongs to the person"
          },
          "reasoning": {
            "type": "string",
            "description": "Free-text reasoning behind the match"
          },
          "snippet": {
            "type": "string",
            "description": "Short excerpt supporting the match"
          }
        },
        "required": [
          "platform",
          "profile_url",
          "is_self_proclaimed",
          "is_self_referring",
          "confidence",
          "reasoning",
          "snippet"
        ],
        "additionalProperties": false
      }
    }
  },
  "required": ["profiles"],
  "additionalProperties": false
}`

// instructionFormat embeds the resolution request verbatim ahead of the fixed
// procedural block.
const instructionFormat = `Resolve the online identity of the person described below and return every social or professional profile that plausibly belongs to them.

Person description:
%s

Procedure:
1. Analyze the description for explicit identifiers: email addresses, handles, full names, employers, locations.
2. Search for candidate profiles across major platforms.
3. Cross-reference candidates against each other and against the description; note profiles that link to one another.
4. Score each candidate conservatively; prefer fewer, higher-confidence matches over speculative ones.
5. Return the matches as JSON conforming to the output schema. An empty list is a valid answer when nothing can be established.`

// BuildTaskSpec derives a job specification from a resolution request. The
// derivation is deterministic: the same input always produces the same spec.
func BuildTaskSpec(input string) engine.TaskSpec {
	return engine.TaskSpec{
		Input:        fmt.Sprintf(instructionFormat, input),
		OutputSchema: json.RawMessage(outputSchemaJSON),
	}
}

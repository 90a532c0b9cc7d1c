package accounts

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const DefaultEndpoint = "https://phantombuster.com/api/v1"

const schemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["name", "apiKey"],
		"additionalProperties": false,
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"apiKey": {
				"type": "string",
				"pattern": "^[\\w:-]{5,50}$"
			},
			"endpoint": {"type": "string", "format": "uri"},
			"scripts": {
				"type": "object",
				"additionalProperties": false,
				"patternProperties": {
					"^[\\w\\. -]{1,50}\\.(?:coffee|js)$": {
						"type": "string",
						"pattern": "\\.(?:coffee|js)$"
					}
				}
			}
		}
	}
}`

var configurationSchema = jsonschema.MustCompileString("configuration-schema.json", schemaJSON)

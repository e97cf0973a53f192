package tools

import "encoding/json"

var (
	emptySchema = json.RawMessage(`{"type":"object","properties":{}}`)

	idSchema = json.RawMessage(`{
  "type": "object",
  "properties": {"id": {"type": "string"}},
  "required": ["id"]
}`)

	recipeIDSchema = json.RawMessage(`{
  "type": "object",
  "properties": {"recipeId": {"type": "string"}},
  "required": ["recipeId"]
}`)

	findSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "ingredients": {
      "type": "array",
      "items": {"type": "string"},
      "description": "Ingredient names to cook with. Defaults to the current inventory."
    }
  }
}`)

	createIngredientSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "quantity": {"type": "string", "description": "Free-form, e.g. \"2 pieces\" or \"150g\""},
    "image": {"type": "string", "description": "URL or emoji"}
  },
  "required": ["name"]
}`)

	createRecipeSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "creator": {"type": "string"},
    "image": {"type": "string"},
    "description": {"type": "string"},
    "nutrition": {
      "type": "object",
      "properties": {
        "energy": {"type": "string"},
        "carbs": {"type": "string"},
        "proteins": {"type": "string"},
        "fats": {"type": "string"}
      }
    },
    "ingredients": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {"name": {"type": "string"}, "quantity": {"type": "string"}},
        "required": ["name"]
      }
    },
    "cookingSteps": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "step": {"type": "integer"},
          "instruction": {"type": "string"},
          "duration": {"type": "string"}
        },
        "required": ["instruction"]
      }
    }
  },
  "required": ["name", "ingredients"]
}`)
)

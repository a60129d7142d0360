package dto

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// TagsToJSON сериализует теги в JSONB колонку
func TagsToJSON(tags []string) datatypes.JSON {
	if len(tags) == 0 {
		return nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

// TagsFromJSON десериализует JSONB колонку обратно в срез
func TagsFromJSON(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil
	}
	return tags
}

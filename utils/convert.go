package utils

import (
	"encoding/json"
	"strconv"

	"gorm.io/datatypes"
)

func FormatUint(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

// MustJSON marshals v into a JSON column value; marshal failures yield null.
func MustJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}

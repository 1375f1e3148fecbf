package repository

import (
	"encoding/json"
	"fmt"
)

// marshalStringSlice は文字列スライスをJSONテキストカラム用に直列化する。
// nilスライスは空配列として保存する。
func marshalStringSlice(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to marshal string slice: %w", err)
	}
	return string(data), nil
}

// unmarshalStringSlice はJSONテキストカラムを文字列スライスに復元する。
// 空文字列は空スライスとして扱う。
func unmarshalStringSlice(data string) ([]string, error) {
	if data == "" {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal string slice: %w", err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

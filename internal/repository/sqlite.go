package repository

import (
	"encoding/json"
	"fmt"
	"time"
)

// sqliteTimeLayout はSQLiteのdatetime('now')が返すUTCタイムスタンプの書式。
const sqliteTimeLayout = "2006-01-02 15:04:05"

// formatTime はtime.TimeをSQLite格納用のUTC文字列に変換する。
func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

// parseTime はSQLiteのタイムスタンプ文字列をtime.Time（UTC）に変換する。
// 空文字列はゼロ値を返す。
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		// RFC3339で書かれた行（外部ツール投入など）も受け付ける
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2.UTC(), nil
		}
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// encodeStrings は文字列配列をJSONエンコードされたTEXTカラム値に変換する。
// nilは空配列として扱う。
func encodeStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return string(b)
}

// decodeStrings はJSONエンコードされたTEXTカラム値を文字列配列に変換する。
func decodeStrings(s string) ([]string, error) {
	if s == "" {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return nil, fmt.Errorf("failed to decode JSON array column: %w", err)
	}
	return values, nil
}

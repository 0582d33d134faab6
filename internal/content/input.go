// Package content はポートフォリオコンテンツのビジネスロジックを提供する。
//
// 各サービスは入力検証、スラッグ重複チェック、部分更新のマージを担当し、
// 永続化はrepository層に委譲する。部分更新では省略されたフィールドは
// 保存済みの値を維持する。
package content

import (
	"encoding/json"
	"strings"
)

// NullableInt64 はJSON上の「未指定」「null」「値あり」を区別する。
// 部分更新でfeaturedOrderをnullにクリアする操作に必要。
type NullableInt64 struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON はjson.Unmarshalerを実装する。
// フィールドがJSONに存在した場合のみ呼ばれるため、呼ばれた時点でSet=trueになる。
func (n *NullableInt64) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// requiredField は必須フィールドの名前と入力値の組。
type requiredField struct {
	name  string
	value *string
}

// missingRequired は必須フィールドのうち未指定または空のものを宣言順に列挙する。
// nilまたは空白のみの値を不足とみなす。
func missingRequired(fields []requiredField) []string {
	var missing []string
	for _, f := range fields {
		if f.value == nil || strings.TrimSpace(*f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// mergeString は部分更新で指定があれば新しい値、なければ既存値を返す。
func mergeString(existing string, in *string) string {
	if in != nil {
		return *in
	}
	return existing
}

// mergeStrings は文字列配列版のmerge。
func mergeStrings(existing []string, in *[]string) []string {
	if in != nil {
		return *in
	}
	return existing
}

// mergeBool はbool版のmerge。
func mergeBool(existing bool, in *bool) bool {
	if in != nil {
		return *in
	}
	return existing
}

// mergeInt64 はint64版のmerge。
func mergeInt64(existing int64, in *int64) int64 {
	if in != nil {
		return *in
	}
	return existing
}

// filterBlank は空白のみの要素を取り除いた配列を返す。
func filterBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

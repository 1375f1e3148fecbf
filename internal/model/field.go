// Package model はドメインモデルを定義する。
package model

import "encoding/json"

// Field は部分更新リクエストにおけるフィールドの存在・null・値を区別するラッパー。
// JSONボディで省略されたフィールド（Set=false）は更新対象外、
// 明示的にnullが指定されたフィールド（Set=true, Valid=false）は値のクリアを意味する。
type Field[T any] struct {
	// Set はJSONボディにキーが存在したかを示す。
	Set bool
	// Valid は値がnullでなかったかを示す。Set=falseの場合は常にfalse。
	Valid bool
	// Value はデコードされた値。Valid=trueの場合のみ意味を持つ。
	Value T
}

// UnmarshalJSON はキーが存在した事実とnull判定を記録してデコードする。
// encoding/jsonはキーが存在しないフィールドのUnmarshalJSONを呼ばないため、
// このメソッドが呼ばれた時点でSet=trueが確定する。
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

// MarshalJSON は保持している値をそのままエンコードする。
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// JobUpdate は仕事の部分更新を表すチェンジセット。
// Setでないフィールドは変更されず、Set&&!Validのフィールドはクリアされる。
// title等のクリア不能なフィールドについては、nullはバリデーションエラーとなる。
type JobUpdate struct {
	Title       Field[string]
	Description Field[string]
	Location    Field[string]
	Budget      Field[string]
	Images      Field[[]string]
	Video       Field[string]
	Latitude    Field[float64]
	Longitude   Field[float64]
	Skills      Field[[]string]
}

// UserUpdate はユーザープロフィールの部分更新を表すチェンジセット。
type UserUpdate struct {
	Name              Field[string]
	AvatarURL         Field[string]
	Location          Field[string]
	Bio               Field[string]
	Skills            Field[[]string]
	YearsOfExperience Field[int]
	CompanyName       Field[string]
}

// Package quiz はクエスト（ミニゲーム）の判定エンジンとセッション管理を提供する。
package quiz

import (
	"github.com/hitoshi/woodbine/internal/model"
)

// Kind はクエストの種別。
type Kind string

// クエスト種別の一覧。
const (
	KindTrivia       Kind = "trivia"
	KindMemory       Kind = "memory"
	KindPuzzle       Kind = "puzzle"
	KindSpeed        Kind = "speed"
	KindMath         Kind = "math"
	KindRiddle       Kind = "riddle"
	KindShape        Kind = "shape"
	KindVocabulary   Kind = "vocabulary"
	KindLogic        Kind = "logic"
	KindHiddenObject Kind = "hidden-object"
)

// NotImplementedMessage は未実装クエストを選択した際に表示する文言。
const NotImplementedMessage = "This quest is not yet implemented."

// Quest はクエスト一覧に表示する1件の定義。正解は含まない。
type Quest struct {
	Kind     Kind     `json:"kind"`
	Title    string   `json:"title"`
	Color    string   `json:"color"`
	Playable bool     `json:"playable"`
	Prompt   string   `json:"prompt,omitempty"`
	Options  []string `json:"options,omitempty"`
}

var quests = []Quest{
	{Kind: KindTrivia, Title: "Trivia Challenge", Color: "#FF5733", Playable: true,
		Prompt: "What is the capital of France?", Options: []string{"Paris", "London"}},
	{Kind: KindMemory, Title: "Memory Test", Color: "#33FF57", Playable: true,
		Prompt: "Enter the number you remembered:"},
	{Kind: KindPuzzle, Title: "Puzzle Game", Color: "#338FFF"},
	{Kind: KindSpeed, Title: "Speed Test", Color: "#FFD700", Playable: true,
		Prompt: "Tap as fast as you can!"},
	{Kind: KindMath, Title: "Math Quiz", Color: "#FF33A1", Playable: true,
		Prompt: "What is 7 + 5?"},
	{Kind: KindRiddle, Title: "Riddle Challenge", Color: "#FF8C00"},
	{Kind: KindShape, Title: "Shape Identification", Color: "#00CED1"},
	{Kind: KindVocabulary, Title: "Vocabulary Test", Color: "#DA70D6"},
	{Kind: KindLogic, Title: "Logic Challenge", Color: "#8A2BE2"},
	{Kind: KindHiddenObject, Title: "Hidden Object Game", Color: "#DC143C"},
}

// memorySequence は記憶テストで表示する数字列。
const memorySequence = "73914"

// answers は入力判定を行うクエストの正解。完全一致で判定する。
var answers = map[Kind]string{
	KindTrivia: "Paris",
	KindMath:   "12",
	KindMemory: memorySequence,
}

// Catalog は全クエストを表示順で返す。呼び出しごとに新しいスライスを返す。
func Catalog() []Quest {
	result := make([]Quest, len(quests))
	for i, q := range quests {
		result[i] = q.clone()
	}
	return result
}

// Lookup は種別に対応するクエストを返す。未知の種別の場合はQUEST_NOT_FOUNDを返す。
func Lookup(kind Kind) (Quest, error) {
	for _, q := range quests {
		if q.Kind == kind {
			return q.clone(), nil
		}
	}
	return Quest{}, model.NewQuestNotFoundError(string(kind))
}

func (q Quest) clone() Quest {
	if q.Options != nil {
		q.Options = append([]string(nil), q.Options...)
	}
	return q
}

package model

// Profile はユーザープロフィールを表す。
// 各フィールドは個別のキーとして保存され、未保存のフィールドは空文字列になる。
type Profile struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

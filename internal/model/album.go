package model

// Album はイベント写真のアルバムを表す。
// Photosは追加のみで、並べ替えや削除は行わない。重複は許容する。
type Album struct {
	ID     string   `json:"id" validate:"required"`
	Title  string   `json:"title" validate:"required"`
	Photos []string `json:"photos"`
}

// NewAlbum は必須フィールドを検証して写真なしのAlbumを生成する。
func NewAlbum(id, title string) (Album, error) {
	a := Album{
		ID:     id,
		Title:  title,
		Photos: []string{},
	}
	if err := validateRecord(a); err != nil {
		return Album{}, err
	}
	return a, nil
}

// WithPhoto は写真を末尾に追加した新しいAlbumを返す。
// 元のAlbumのPhotosスライスとはメモリを共有しない。
func (a Album) WithPhoto(photoRef string) Album {
	photos := make([]string, len(a.Photos), len(a.Photos)+1)
	copy(photos, a.Photos)
	a.Photos = append(photos, photoRef)
	return a
}

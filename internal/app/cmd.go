package app

// Command はアプリケーションの起動モードを表す。
// コンテナではENTRYPOINTに続く最初の引数として渡される（Dockerfileの既定はserve、HEALTHCHECKはhealthcheck）。
type Command string

const (
	// CommandServe はローカルAPIサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandMigrate はkv_storeのマイグレーションを実行することを示す。
	// STORAGE_DRIVER=memoryでは何もしない。STORAGE_AUTO_MIGRATE=falseで運用する場合に事前実行する。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は起動中サーバーの/healthを確認することを示す。
	// distrolessイメージにはcurlがないため、バイナリ自身がSERVER_PORTへ問い合わせる。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandServeを返す。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}

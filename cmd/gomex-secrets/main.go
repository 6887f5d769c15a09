package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mexbot/gomex/accounts"
)

// 把 .env 里的账号密钥导入 badger 密钥库，之后账号存档就不用再
// 携带 secret 字段。.env 里的条目格式：
//
//	GOMEX_SECRET_<账号名>=<api secret>
//
// 账号名大小写保持 .env 中 <账号名> 的原样。

const envPrefix = "GOMEX_SECRET_"

func main() {
	var (
		inPath = flag.String("in", ".env", ".env 文件路径")
		dbPath = flag.String("store", getenv("GOMEX_SECRETSTORE_PATH", "data/secrets.badger"), "密钥库目录")
		encKey = flag.String("key", getenv("GOMEX_SECRETSTORE_KEY", ""), "密钥库加密口令（32 字节，可为空）")
	)
	flag.Parse()

	kv, err := godotenv.Read(*inPath)
	if err != nil {
		fatal(err)
	}

	store, err := accounts.OpenSecretStore(accounts.SecretStoreOptions{
		Path:          *dbPath,
		EncryptionKey: []byte(*encKey),
		ReadOnly:      false,
	})
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	written := 0
	for k, v := range kv {
		if !strings.HasPrefix(k, envPrefix) {
			continue
		}
		name := strings.TrimPrefix(k, envPrefix)
		if name == "" || v == "" {
			continue
		}
		if err := store.PutSecret(name, v); err != nil {
			fatal(err)
		}
		written++
	}

	fmt.Fprintf(os.Stderr, "已导入 %d 个账号密钥到 %s\n", written, *dbPath)
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}

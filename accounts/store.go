package accounts

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// DefaultSavefile 默认账号存档位置
const DefaultSavefile = "./accounts.json"

// Save 把账号表写入存档（json 列表）。先写临时文件再改名，
// 避免写到一半留下坏档。会覆盖旧存档。
func (r *Registry) Save(savefile string) error {
	data := r.All()
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode accounts")
	}
	if dir := filepath.Dir(savefile); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create savefile dir")
		}
	}
	tmp := savefile + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return errors.Wrap(err, "write savefile")
	}
	return os.Rename(tmp, savefile)
}

// Load 从存档读入账号表。会整表替换当前已加载的账号。
func (r *Registry) Load(savefile string) error {
	b, err := os.ReadFile(savefile)
	if err != nil {
		return errors.Wrapf(err, "does %q really exist", savefile)
	}
	var loaded []Account
	if err := json.Unmarshal(b, &loaded); err != nil {
		return errors.Wrapf(err, "is %q really an account savefile", savefile)
	}
	r.reset(loaded)
	return nil
}

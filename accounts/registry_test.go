package accounts

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

// TestRegistryNew 注册账号与默认 host
func TestRegistryNew(t *testing.T) {
	r := NewRegistry()
	a, err := r.New("main", "key", "secret", "")
	if err != nil {
		t.Fatalf("New 失败: %v", err)
	}
	if a.Host != DefaultHost {
		t.Errorf("host = %q，应回落到默认值", a.Host)
	}
	if _, err := r.New("main", "k2", "s2", ""); err == nil {
		t.Error("重名账号应该被拒绝")
	}
	var exists *ExistsError
	_, err = r.New("main", "k2", "s2", "")
	if !errors.As(err, &exists) {
		t.Errorf("期望 ExistsError，实际 %T", err)
	}
}

// TestRegistryGetDelete 查找与删除
func TestRegistryGetDelete(t *testing.T) {
	r := NewRegistry()
	r.New("a", "ka", "sa", "https://testnet.bitmex.com/")

	got, err := r.Get("a")
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if got.Key != "ka" {
		t.Errorf("Key = %q", got.Key)
	}

	var notFound *NotFoundError
	if _, err := r.Get("missing"); !errors.As(err, &notFound) {
		t.Errorf("期望 NotFoundError，实际 %v", err)
	}

	r.Delete("a")
	if _, err := r.Get("a"); err == nil {
		t.Error("删除后仍能查到账号")
	}
	// 删除不存在的账号是空操作
	r.Delete("missing")
}

// TestRegistryOrder Names 和 All 保持注册顺序
func TestRegistryOrder(t *testing.T) {
	r := NewRegistry()
	r.New("c", "", "", "")
	r.New("a", "", "", "")
	r.New("b", "", "", "")
	want := []string{"c", "a", "b"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
}

// TestRegistryReplace 整条替换
func TestRegistryReplace(t *testing.T) {
	r := NewRegistry()
	r.New("a", "old", "old", "")
	if err := r.Replace("a", Account{Name: "a", Key: "new", Secret: "new", Host: DefaultHost}); err != nil {
		t.Fatalf("Replace 失败: %v", err)
	}
	got, _ := r.Get("a")
	if got.Key != "new" {
		t.Errorf("替换后 Key = %q", got.Key)
	}
	if err := r.Replace("missing", Account{}); err == nil {
		t.Error("替换不存在的账号应该报错")
	}
}

// TestSaveLoad 存档写入与读回
func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	savefile := filepath.Join(dir, "accounts.json")

	r := NewRegistry()
	r.New("a", "ka", "sa", "")
	r.New("b", "kb", "sb", "https://testnet.bitmex.com/")
	if err := r.Save(savefile); err != nil {
		t.Fatalf("Save 失败: %v", err)
	}

	loaded := NewRegistry()
	loaded.New("stale", "", "", "")
	if err := loaded.Load(savefile); err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	// Load 是整表替换
	if _, err := loaded.Get("stale"); err == nil {
		t.Error("Load 之后旧账号应该消失")
	}
	if !reflect.DeepEqual(loaded.All(), r.All()) {
		t.Errorf("读回结果 %v != 存档内容 %v", loaded.All(), r.All())
	}
}

// TestLoadMissing 读不存在的存档应报错
func TestLoadMissing(t *testing.T) {
	r := NewRegistry()
	if err := r.Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("不存在的存档应该报错")
	}
}

// TestSecretStoreRoundtrip 密钥库写入、读回、Hydrate
func TestSecretStoreRoundtrip(t *testing.T) {
	store, err := OpenSecretStore(SecretStoreOptions{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("OpenSecretStore 失败: %v", err)
	}
	defer store.Close()

	if err := store.PutSecret("a", "s3cret"); err != nil {
		t.Fatalf("PutSecret 失败: %v", err)
	}
	got, ok, err := store.GetSecret("a")
	if err != nil || !ok || got != "s3cret" {
		t.Fatalf("GetSecret = (%q, %v, %v)", got, ok, err)
	}
	if _, ok, _ := store.GetSecret("missing"); ok {
		t.Error("不存在的密钥不应命中")
	}

	r := NewRegistry()
	r.New("a", "ka", "", "")
	r.New("b", "kb", "inline", "")
	if err := r.Hydrate(store); err != nil {
		t.Fatalf("Hydrate 失败: %v", err)
	}
	a, _ := r.Get("a")
	if a.Secret != "s3cret" {
		t.Errorf("Hydrate 后 a.Secret = %q", a.Secret)
	}
	b, _ := r.Get("b")
	if b.Secret != "inline" {
		t.Errorf("存档自带的密钥不应被覆盖，b.Secret = %q", b.Secret)
	}

	if err := store.DeleteSecret("a"); err != nil {
		t.Fatalf("DeleteSecret 失败: %v", err)
	}
	if _, ok, _ := store.GetSecret("a"); ok {
		t.Error("删除后密钥仍然存在")
	}
}

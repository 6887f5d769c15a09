package accounts

import (
	"fmt"
	"sync"
)

// DefaultHost 新账号的默认 bitmex 服务器
const DefaultHost = "https://www.bitmex.com/"

// Account 一条账号凭证记录。创建后不原地修改，编辑走 Replace。
type Account struct {
	Name   string `json:"name"`
	Key    string `json:"key"`
	Secret string `json:"secret"`
	Host   string `json:"host"`
}

// NotFoundError 按名字找不到账号
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("account %q doesn't exist", e.Name)
}

// ExistsError 账号名重复
type ExistsError struct {
	Name string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("account %q already exists", e.Name)
}

// Registry 内存账号表。名字在表内唯一，保持插入顺序。
// 核心层只通过 Get / All 读取，增删改由边界代码负责。
type Registry struct {
	mu       sync.RWMutex
	accounts []Account
}

// NewRegistry 创建空账号表
func NewRegistry() *Registry {
	return &Registry{}
}

// New 注册新账号。host 为空时使用 DefaultHost。
func (r *Registry) New(name, key, secret, host string) (Account, error) {
	if host == "" {
		host = DefaultHost
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Name == name {
			return Account{}, &ExistsError{Name: name}
		}
	}
	account := Account{Name: name, Key: key, Secret: secret, Host: host}
	r.accounts = append(r.accounts, account)
	return account, nil
}

// Delete 删除同名账号（不存在时为空操作）
func (r *Registry) Delete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.accounts {
		if a.Name == name {
			r.accounts = append(r.accounts[:i], r.accounts[i+1:]...)
			return
		}
	}
}

// Get 按名字取账号
func (r *Registry) Get(name string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if a.Name == name {
			return a, nil
		}
	}
	return Account{}, &NotFoundError{Name: name}
}

// All 返回全部账号的拷贝（按注册顺序）
func (r *Registry) All() []Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// Names 返回全部账号名（按注册顺序）
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.accounts))
	for i, a := range r.accounts {
		out[i] = a.Name
	}
	return out
}

// Replace 整条替换同名账号（replace-on-edit 语义）
func (r *Registry) Replace(name string, account Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.accounts {
		if a.Name == name {
			r.accounts[i] = account
			return nil
		}
	}
	return &NotFoundError{Name: name}
}

// reset 整表替换（Load 使用）
func (r *Registry) reset(accounts []Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = accounts
}

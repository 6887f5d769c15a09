package core

import (
	"strings"

	"github.com/mexbot/gomex/accounts"
)

// Entry 批量操作中单个账号的失败记录。Account 为 nil 表示
// 账号名解析失败（还没到 api 调用那一步）。
type Entry struct {
	Account *accounts.Account
	Err     error
}

// AggregateError 多账号操作的聚合错误。批次不会中途放弃，
// 所有账号都尝试过之后才整体抛出；已成功账号的订单不会回滚。
type AggregateError struct {
	Entries []Entry
}

// Add 追加一条失败记录
func (e *AggregateError) Add(account *accounts.Account, err error) {
	e.Entries = append(e.Entries, Entry{Account: account, Err: err})
}

// Empty 批次内是否没有任何失败
func (e *AggregateError) Empty() bool {
	return len(e.Entries) == 0
}

// AsError 批次无失败时返回 nil，否则返回自身
func (e *AggregateError) AsError() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *AggregateError) Error() string {
	var b strings.Builder
	b.WriteString("core error:\n")
	for _, entry := range e.Entries {
		if entry.Account != nil {
			b.WriteString(entry.Account.Name)
		} else {
			b.WriteString("<unresolved>")
		}
		b.WriteString(": ")
		b.WriteString(entry.Err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// FailedAccounts 返回有账号归属的失败账号名（按记录顺序）
func (e *AggregateError) FailedAccounts() []string {
	var out []string
	for _, entry := range e.Entries {
		if entry.Account != nil {
			out = append(out, entry.Account.Name)
		}
	}
	return out
}

package types

// Params 一次请求的查询 / 请求体参数。
// GET 请求中非字符串值会先 json 编码再做 query 编码；
// 变更类请求整体序列化为一个 json 对象。
type Params map[string]any

// Clone 浅拷贝。扇出引擎按账号注入 orderQty 前必须拷贝，
// 避免批次内各账号互相覆盖。
func (p Params) Clone() Params {
	out := make(Params, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	return out
}

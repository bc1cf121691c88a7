// app/approval.go
package app

// ApprovalGate 外部审批流的接口：类型需要审批时，
// 操作只能以 pending 入账，由审批决定触发结算
type ApprovalGate interface {
	Requires(opType string) bool
}

// StaticGate 从配置读的固定集合；接真实审批服务时替换这里
type StaticGate map[string]bool

func NewStaticGate(types []string) StaticGate {
	g := make(StaticGate, len(types))
	for _, t := range types {
		g[t] = true
	}
	return g
}

func (g StaticGate) Requires(opType string) bool { return g[opType] }

package model

// Classifier 是排序阶段的最小抽象：输入一行已编码的类别特征，输出每个标签类的概率。
// 返回切片长度等于 NumClasses，下标即标签编码器中的类别下标。
// 实现必须是纯函数：同一输入多次调用返回相同结果，且可并发调用。
type Classifier interface {
	Name() string
	NumClasses() int
	PredictProba(row []int) ([]float64, error)
}

package store

// 注意：此包只包含实现，接口定义在 core 包（core.Store / core.KeyValueStore /
// core.UserStore ...）与 model 包（model.BundleStore）。
//
// 示例：
//   var kv core.KeyValueStore = NewMemoryStore()
//   var bundles model.BundleStore = NewKVBundleStore(kv, "pathwise:")
//   var db = NewSQLStore(gormDB) // UserStore / ProfileStore / ResponseStore / RecommendationStore / AdminStore

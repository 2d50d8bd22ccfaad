package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store 和 core.KeyValueStore 接口。
//
// 在 bookrec 中 Store 承担两类职责：
//   - 引擎快照持久化（engine.SaveTo / engine.LoadFrom）
//   - 推荐结果缓存与热度榜（engine 可选开启）
//
// 示例：
//   var st core.Store = NewMemoryStore()
//   var kv core.KeyValueStore = NewMemoryStore()

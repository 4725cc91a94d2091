
// Package fuzztests houses Go fuzz harnesses that exercise the scope tree
// pipeline (source -> lexer -> parser -> astscope). Its goal is to smoke test
// robustness and guard against panics, hangs or broken tree invariants on
// arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet,
// прогоняют их через лексер/парсер и строят дерево областей.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser, internal/diag,
// internal/ast, internal/astscope, internal/testkit.

package fuzztests

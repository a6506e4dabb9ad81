// Package fuzztests houses Go fuzz harnesses for the checker pipeline
// (source -> lexer -> parser -> qualifier checker -> lowering). They guard
// against panics and hangs on arbitrary input.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests

// Package dsl разбирает DSL определений задач.
//
// Включает:
//   - lexer.go  — токенизация (комментарии и пробелы нормализуются)
//   - parser.go — разбор в упорядоченный список domain.AppStep
//
// Синтаксис:
//
//	extract | transform | load
//	ingest: app/extract@1.2.0 --source=s3 && task/cleanup
//	<left: copy || right: copy> && merge
//
// Шаг: [label:] [app|task/]name[@qualifier] [--key=value ...].
// Шаги разделяются "|" или "&&", "<a || b>" задаёт параллельную группу.
// "#" начинает комментарий до конца строки.
package dsl

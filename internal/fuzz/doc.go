// Package fuzztests houses Go fuzz harnesses that push arbitrary text through
// the mapping document, COPY statement search and the whole preprocessor.
// Their goal is to guard against panics, hangs and broken mappings.
//
// Назначение: прогонять байты через mapping.Document и preprocess.Analyze и
// проверять инварианты маппинга из internal/testkit.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests

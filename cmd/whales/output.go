package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/rodaine/table"
	"github.com/samber/mo"
	"github.com/sanity-io/litter"

	"github.com/KonishchevDmitry/whales/internal/engine"
	"github.com/KonishchevDmitry/whales/internal/util"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newTable(writer io.Writer, columns ...string) table.Table {
	headers := make([]interface{}, 0, len(columns))
	for _, column := range columns {
		headers = append(headers, util.Title(column))
	}

	headerFormatter := color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFormatter := color.New(color.FgYellow).SprintfFunc()

	return table.New(headers...).
		WithWriter(writer).
		WithHeaderFormatter(headerFormatter).
		WithFirstColumnFormatter(columnFormatter)
}

// printResults prints inspect results either as a JSON array or as Go values dump.
func printResults[T any](writer io.Writer, results []T, dump bool) error {
	if dump {
		for _, result := range results {
			if _, err := fmt.Fprintln(writer, litter.Sdump(result)); err != nil {
				return err
			}
		}
		return nil
	}

	data, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(writer, string(data))
	return err
}

func formatMapping(mapping map[string]string) string {
	return strings.Join(engine.FormatMapping(mapping), ",")
}

func formatOption[T any](option mo.Option[T]) string {
	if value, ok := option.Get(); ok {
		return fmt.Sprint(value)
	}
	return "-"
}

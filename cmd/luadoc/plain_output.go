package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/upsun/luadoc/pkg/docs"
)

// outputListPlain outputs functions in plain tab-separated format
func outputListPlain(d *docs.Documentation, stdout io.Writer) {
	fmt.Fprintln(stdout, "Category\tFunction\tParams\tReturns\tDescription")
	for _, category := range d.Categories() {
		for _, fn := range d.Functions(category) {
			params := make([]string, len(fn.Params))
			for i, p := range fn.Params {
				params[i] = p.Name + ":" + p.Type
			}
			returns := make([]string, len(fn.Returns))
			for i, r := range fn.Returns {
				returns[i] = r.Type
			}
			fmt.Fprintf(stdout, "%s\t%s\t%s\t%s\t%s\n",
				category,
				fn.Name,
				strings.Join(params, ", "),
				strings.Join(returns, ", "),
				fn.Description,
			)
		}
	}
}

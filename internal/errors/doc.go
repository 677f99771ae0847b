// Package errors provides structured, actionable error messages for vbind.
//
// Every error carries a code (e.g. "E010") that maps to a category, a short
// message, a longer explanation and a documentation link. Binder errors also
// carry the location of the offending template node and a snippet of it.
//
// # Error Categories
//
//   - runtime: data access and refresh failures
//   - template: problems found while binding a template
//   - config: configuration loading and validation
//   - source: reading templates and data documents
//   - cli: command-line usage
//
// # Usage
//
//	err := errors.New("E011").
//	    WithLocation("index.html", "html>body>div#app>button").
//	    WithSnippet(`<button @click="ad(1)">+</button>`).
//	    WithSuggestion(`Declare a method named "ad" or fix the handler name`)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E011: Handler method not found
//	//
//	//   index.html: html>body>div#app>button
//	//
//	//     │ <button @click="ad(1)">+</button>
//	//
//	//   Hint: Declare a method named "ad" or fix the handler name
//	//
//	//   Learn more: https://vbind.dev/docs/errors/E011
package errors

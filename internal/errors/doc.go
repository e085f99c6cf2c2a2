// Package errors provides structured, coded errors for bindery.
//
// Every error carries a code (e.g. "B101") that maps to a registered
// template with a category, a short message and a longer detail. Builders
// attach the markup location, a fix suggestion and a wrapped cause.
//
// # Error Categories
//
//   - parse: malformed directive text in a bound attribute
//   - invocation: Call targets that are not callable or reject the arguments
//   - config: bindery.json / bindery.yaml problems
//   - cli: command line and data file problems
//   - publish: snapshot upload failures
//
// # Usage
//
//	err := errors.New("B102").
//	    WithLocation("li.item", "title.attr").
//	    WithSuggestion("Register the calculation with bind.WithCalc")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR B102: Unknown calculation
//	//
//	//   li.item [title.attr]
//	//
//	//   Hint: Register the calculation with bind.WithCalc
package errors

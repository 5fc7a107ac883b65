// Package copybook resolves COPY statements and splices the expanded
// copybook bodies into the including document.
//
// Every copybook goes through the same stages: the name is validated, the
// text is read from a ContentProvider, the inclusion stack is checked for
// recursion, the body is preprocessed by an Expander with the copybook pushed
// on the Hierarchy, spliced over the statement lines, and registered in a
// Registry. A copybook that cannot be used leaves an empty body behind that
// still maps to the statement it replaced.
package copybook

// Package layout discovers how a deployment arranges its letterform
// assets. Nobody tells us the directory scheme, so we probe a fixed
// cross product of candidate base paths and path templates once per
// process and remember the first combination that answers.
package layout

package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeServer() string {
	return "Dead code detection for JavaScript and TypeScript projects"
}

func describeDeadcode() string {
	return `Finds declarations in a JavaScript/TypeScript project that nothing references: functions, classes, constants, typed properties, type/interface definitions, exports, console calls and package.json dependencies.

USE WHEN:
- Cleaning up a front-end codebase before a refactor
- Finding exports no other module imports
- Finding dependencies no source file imports
- Auditing @deprecated code that is still in use

INTERPRETING RESULTS:
- dead_code: declarations with no proven usage, the removal candidates
- deprecated: declarations marked @deprecated, used or not
- local_only_exports: exports used in their own file but never imported; the export keyword can likely go
- Console calls are always reported
- Matching is textual: dynamic access (obj[name]), string-built imports and non-relative aliases are not followed
- Suppress a finding with a // @husk-ignore comment on or above the line, or a whole file with // @husk-ignore-file before the first code line

METRICS RETURNED:
- Per declaration: name, kind, file, line, column, usage flags, context
- Summary: total, used, unused, deprecated, local-only exports, counts by kind and file`
}

package oracle

const prologue = `You are a code-understanding service inside a dependency-graph builder.
You MUST output STRICT JSON that exactly matches the schema below.
No comments, no trailing commas, no backticks, no prose outside the JSON object.
If something is unknown, return null or an empty array/string explicitly.`

const promptAnalyzeFile = prologue + `

The input carries one source file ("filename", "source"). Extract its structure.

Schema:
{
  "file_description": "string",                // One or two sentences on what the file does
  "imports": ["string"],                       // Names of other files/modules this file references
  "functions": [
    {
      "name": "string",
      "description": "string",
      "called_functions": ["string"],          // Raw call references as they appear in the code
      "parameters": [ {"name":"string","type":"string"} ],
      "return_type": "string"
    }
  ],
  "classes": [
    {
      "name": "string",
      "description": "string",
      "methods": [                             // Same shape as functions
        {
          "name": "string",
          "description": "string",
          "called_functions": ["string"],
          "parameters": [ {"name":"string","type":"string"} ],
          "return_type": "string"
        }
      ]
    }
  ],
  "globals": [ {"name":"string","description":"string","value":"string"} ]
}

Rules:
- Report every top-level function, class, method and global; omit locals.
- called_functions are textual references only; do not resolve or qualify them.
- Use "" for unknown types; never invent parameters that are not in the code.
`

const promptResolveAmbiguousCall = prologue + `

A call reference matches several function implementations in different files.
The input carries the call name, the calling context, and one entry per
candidate implementation ("implementations"). Pick the file whose
implementation the caller most likely refers to.

Schema:
{
  "file": "string"    // Must be one of the candidate files, verbatim
}

Rules:
- Weigh the caller's imports and description against each candidate's
  description, parameters and return type.
- Answer with exactly one of the listed files; never invent a file name.
`

const promptInferExternalFunction = prologue + `

A call reference does not match any function in the scanned repository. The
input carries the unresolved call name, the calling function and its file.
Infer what the external function most likely is (standard library, framework,
or third-party code).

Schema:
{
  "name": "string",                  // The call name, normalized
  "inferred_description": "string",  // Best-guess one-line description
  "likely_parameters": [ {"name":"string","type":"string"} ],
  "likely_return": "string"
}
`

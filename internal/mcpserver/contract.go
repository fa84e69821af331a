package mcpserver

// PageFormatContract describes the local page document format expected by
// the create_page and update_page tools.
const PageFormatContract = `# Wiki Page Document Format

A page document is Markdown with a YAML front-matter header. The page
attributes are nested under a ` + "`" + `metadata` + "`" + ` key.

` + "```" + `markdown
---
metadata:
    description: One-line summary       # OPTIONAL
    path: infra/vpn                     # REQUIRED – page path, no leading slash
    tags:                               # OPTIONAL – informational only
        - infra
    title: VPN Setup                    # REQUIRED
---

Page body in Markdown.
` + "```" + `

## Rules

1. The header must open and close with ` + "`" + `---` + "`" + ` lines.
2. ` + "`" + `title` + "`" + ` and ` + "`" + `path` + "`" + ` are required.
3. One blank line separates the header from the body; everything after it is
   the page content, byte for byte.
4. Created pages are published, public, use the Markdown editor and get the
   configured default tags.
5. update_page deletes the page and creates it again. A backup of the
   previous version is written first; if re-creation fails the error names
   the backup file.
`

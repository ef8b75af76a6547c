// Package adapter translates a register manifest into the configuration
// document schema of each supported developer tool.
//
// Five tools are built in, differing in root key ("servers" vs "mcpServers"),
// whether entries carry a "type" discriminator, which transports the schema
// can encode, and how secret environment variables are represented (plain
// ${VAR} reference vs an ${input:VAR} placeholder paired with a prompt
// definition).
//
// All adapters edit through the jsonc codec, so a merge or remove is a
// minimal text splice into the original document: existing entries, comments,
// and formatting survive byte-for-byte. Adapters are looked up through a
// string-keyed Registry; the reconciliation orchestrator never branches on
// tool identity.
package adapter

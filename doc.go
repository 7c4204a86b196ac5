// Package multiquadlet package demultiplexes composite quadlet documents into discrete unit files and reconciles systemd's reverse-dependency symlink farm
// from the [Install] section of the generated target units.
//
// A composite document (conventionally a *.multiquadlet file) is a sequence of blocks, each introduced by a header line of the exact shape
// "--- <filename> ---" and followed by raw unit-file text up to the next header or the end of the document. Split demultiplexes such a document into
// per-unit sections; the Stager writes those sections into a staging directory consumed by an external unit compiler (in production, the podman quadlet
// generator). Quadlet ignores *.target files, so after compilation the Generator copies target units into the output directory, parses each one, and
// materializes its WantedBy, RequiredBy, and UpheldBy directives as <target>.wants/, <target>.requires/, and <target>.upholds/ symlinks, mirroring what
// systemctl enable would have produced.
//
// Splitting one document is atomic: if any of its sections collides with a file staged earlier, every file already written for that document is removed
// before the error is returned. Materialization is deliberately not atomic: a conflicting occupant at a link path stops the remaining directives of that
// unit but leaves links created earlier in the same pass in place. The asymmetry is inherited, observable behavior; callers that need a clean tree should
// clear the output directory and re-run the whole reconciliation, which is what the Generator does on every run.
//
// The whole pipeline is single-threaded and synchronous. It is designed to be invoked once per reconciliation event by an external scheduler (systemd's
// generator machinery) that serializes invocations, so no locking is performed on the staging or output trees.
package multiquadlet

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package launch builds and executes one invocation of the external
// localization program.
//
// The launcher is a deterministic, single-shot sequence: assemble the child
// environment (API credentials, module search path, index directory locations),
// create the result directory if absent, and invoke the external program with a
// fixed argument vector. It performs no retries and no validation of the API
// key. A missing credential is diagnosed by the external program itself.
//
// Environment values are passed through literally; the launcher never mutates
// the parent process environment, only the child's.
//
// Execution goes through the Runner interface so tests can substitute a stub
// that records the argument vector and environment instead of starting a
// process. The production runner uses os/exec and propagates the external
// program's exit code unchanged.
package launch

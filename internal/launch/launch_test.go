package launch

import (
	"reflect"
	"testing"

	"github.com/treykane/sshdeck/internal/model"
)

func TestSSHCommandAliasWins(t *testing.T) {
	rec := model.HostRecord{Host: "prod", HostName: "1.2.3.4", Port: 2222}
	if got := SSHCommand(rec); got != "ssh prod" {
		t.Fatalf("SSHCommand = %q", got)
	}
	if got := SSHArgs(rec); !reflect.DeepEqual(got, []string{"prod"}) {
		t.Fatalf("SSHArgs = %v", got)
	}
}

func TestSSHCommandRawFields(t *testing.T) {
	rec := model.HostRecord{HostName: "1.2.3.4", User: "al ice", Port: 2222}
	if got := SSHCommand(rec); got != "ssh 'al ice'@1.2.3.4 -p 2222" {
		t.Fatalf("SSHCommand = %q", got)
	}
}

func TestSSHCommandDefaultPortOmitted(t *testing.T) {
	for _, port := range []int{0, 22} {
		rec := model.HostRecord{HostName: "example.com", User: "root", Port: port}
		if got := SSHCommand(rec); got != "ssh root@example.com" {
			t.Fatalf("port %d: SSHCommand = %q", port, got)
		}
	}
}

func TestSSHCommandWildcardAliasNotUsable(t *testing.T) {
	rec := model.HostRecord{Host: "*", HostName: "10.0.0.1"}
	if got := SSHCommand(rec); got != "ssh 10.0.0.1" {
		t.Fatalf("SSHCommand = %q", got)
	}
}

func TestSSHArgsRawFields(t *testing.T) {
	rec := model.HostRecord{HostName: "10.0.0.5", User: "deploy", Port: 2200}
	want := []string{"-p", "2200", "deploy@10.0.0.5"}
	if got := SSHArgs(rec); !reflect.DeepEqual(got, want) {
		t.Fatalf("SSHArgs = %v, want %v", got, want)
	}
}

func TestSFTPTargets(t *testing.T) {
	rec := model.HostRecord{Host: "files", SFTPPath: "/srv/share"}
	if got := SFTPCommand(rec); got != "sftp files:/srv/share" {
		t.Fatalf("SFTPCommand = %q", got)
	}
	if got := SFTPArgs(rec); !reflect.DeepEqual(got, []string{"files:/srv/share"}) {
		t.Fatalf("SFTPArgs = %v", got)
	}

	raw := model.HostRecord{HostName: "10.1.1.1", User: "ftp", Port: 2222, SFTPPath: "/in out"}
	if got := SFTPCommand(raw); got != "sftp -P 2222 ftp@10.1.1.1:'/in out'" {
		t.Fatalf("SFTPCommand raw = %q", got)
	}
	want := []string{"-P", "2222", "ftp@10.1.1.1:/in out"}
	if got := SFTPArgs(raw); !reflect.DeepEqual(got, want) {
		t.Fatalf("SFTPArgs raw = %v", got)
	}
}

func TestConnectCommandUsesAlias(t *testing.T) {
	cmd := ConnectCommand(model.HostRecord{Host: "web", HostName: "ignored", Port: 9999})
	if len(cmd.Args) != 2 || cmd.Args[1] != "web" {
		t.Fatalf("argv = %v", cmd.Args)
	}
}
